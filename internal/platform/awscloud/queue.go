package awscloud

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// Queue attribute names.
const (
	attrFifoQueue                   = "FifoQueue"
	attrContentBasedDeduplication   = "ContentBasedDeduplication"
	attrApproximateNumberOfMessages = "ApproximateNumberOfMessages"
)

// MessageNameAttribute is the message attribute carrying a message's name.
const MessageNameAttribute = "MessageName"

// maxReceiveWait is the longest long-poll SQS accepts.
const maxReceiveWait = 20 * time.Second

// listQueuesPageSize is the largest page ListQueues returns.
const listQueuesPageSize = 1000

// CreateQueue creates a queue and returns its URL.
// Creating a queue that already exists with identical attributes returns its URL.
func (c *RealClient) CreateQueue(ctx context.Context, spec QueueSpec) (string, error) {
	attrs := map[string]string{}
	if spec.FIFO {
		attrs[attrFifoQueue] = "true"
	}
	if spec.ContentBasedDeduplication {
		attrs[attrContentBasedDeduplication] = "true"
	}

	input := &sqs.CreateQueueInput{
		QueueName: aws.String(spec.Name),
	}
	if len(attrs) > 0 {
		input.Attributes = attrs
	}
	if len(spec.Tags) > 0 {
		input.Tags = spec.Tags
	}

	var out *sqs.CreateQueueOutput
	err := c.call(ctx, serviceSQS, "CreateQueue", func(ctx context.Context) error {
		var err error
		out, err = c.sqs.CreateQueue(ctx, input)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to create queue %s: %w", spec.Name, err)
	}
	if out.QueueUrl == nil {
		return "", fmt.Errorf("failed to create queue %s: no queue URL returned", spec.Name)
	}
	return *out.QueueUrl, nil
}

// ListQueues returns the URLs of all queues in the region.
func (c *RealClient) ListQueues(ctx context.Context) ([]string, error) {
	paginator := sqs.NewListQueuesPaginator(c.sqs, &sqs.ListQueuesInput{
		MaxResults: aws.Int32(listQueuesPageSize),
	})

	var urls []string
	for paginator.HasMorePages() {
		var page *sqs.ListQueuesOutput
		err := c.call(ctx, serviceSQS, "ListQueues", func(ctx context.Context) error {
			var err error
			page, err = paginator.NextPage(ctx)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list queues: %w", err)
		}
		urls = append(urls, page.QueueUrls...)
	}
	return urls, nil
}

// SendMessage sends a message and returns its id. The name travels as a
// string message attribute.
func (c *RealClient) SendMessage(ctx context.Context, queueURL string, msg OutgoingMessage) (string, error) {
	if queueURL == "" {
		return "", errMissing("queue URL")
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(queueURL),
		MessageBody: aws.String(msg.Body),
	}
	if msg.GroupID != "" {
		input.MessageGroupId = aws.String(msg.GroupID)
	}
	if msg.Name != "" {
		input.MessageAttributes = map[string]sqstypes.MessageAttributeValue{
			MessageNameAttribute: {
				DataType:    aws.String("String"),
				StringValue: aws.String(msg.Name),
			},
		}
	}

	var out *sqs.SendMessageOutput
	err := c.call(ctx, serviceSQS, "SendMessage", func(ctx context.Context) error {
		var err error
		out, err = c.sqs.SendMessage(ctx, input)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to send message to %s: %w", queueURL, err)
	}
	return aws.ToString(out.MessageId), nil
}

// ReceiveMessage returns at most one message, or nil if none arrived
// within wait. Wait is clamped to what SQS supports.
func (c *RealClient) ReceiveMessage(ctx context.Context, queueURL string, wait time.Duration) (*Message, error) {
	if queueURL == "" {
		return nil, errMissing("queue URL")
	}
	wait = min(max(wait, 0), maxReceiveWait)

	var out *sqs.ReceiveMessageOutput
	err := c.call(ctx, serviceSQS, "ReceiveMessage", func(ctx context.Context) error {
		var err error
		out, err = c.sqs.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:              aws.String(queueURL),
			MaxNumberOfMessages:   1,
			MessageAttributeNames: []string{"All"},
			WaitTimeSeconds:       int32(wait / time.Second),
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to receive message from %s: %w", queueURL, err)
	}
	if len(out.Messages) == 0 {
		return nil, nil
	}

	m := out.Messages[0]
	msg := &Message{
		ID:            aws.ToString(m.MessageId),
		Body:          aws.ToString(m.Body),
		ReceiptHandle: aws.ToString(m.ReceiptHandle),
	}
	if attr, ok := m.MessageAttributes[MessageNameAttribute]; ok && attr.StringValue != nil {
		msg.Name = *attr.StringValue
		msg.HasName = true
	}
	return msg, nil
}

// DeleteMessage acknowledges a received message.
func (c *RealClient) DeleteMessage(ctx context.Context, queueURL, receiptHandle string) error {
	if receiptHandle == "" {
		return errMissing("receipt handle")
	}

	err := c.call(ctx, serviceSQS, "DeleteMessage", func(ctx context.Context) error {
		_, err := c.sqs.DeleteMessage(ctx, &sqs.DeleteMessageInput{
			QueueUrl:      aws.String(queueURL),
			ReceiptHandle: aws.String(receiptHandle),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete message from %s: %w", queueURL, err)
	}
	return nil
}

// CountMessages returns the approximate number of visible messages.
func (c *RealClient) CountMessages(ctx context.Context, queueURL string) (int, error) {
	if queueURL == "" {
		return 0, errMissing("queue URL")
	}

	var out *sqs.GetQueueAttributesOutput
	err := c.call(ctx, serviceSQS, "GetQueueAttributes", func(ctx context.Context) error {
		var err error
		out, err = c.sqs.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
			QueueUrl:       aws.String(queueURL),
			AttributeNames: []sqstypes.QueueAttributeName{sqstypes.QueueAttributeNameApproximateNumberOfMessages},
		})
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get attributes of %s: %w", queueURL, err)
	}

	raw, ok := out.Attributes[attrApproximateNumberOfMessages]
	if !ok {
		return 0, fmt.Errorf("queue %s did not report %s", queueURL, attrApproximateNumberOfMessages)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q for %s: %w", attrApproximateNumberOfMessages, raw, queueURL, err)
	}
	return n, nil
}

// DeleteQueue deletes a queue. Deletion is eventually consistent: the
// queue may remain listed for up to a minute.
func (c *RealClient) DeleteQueue(ctx context.Context, queueURL string) error {
	if queueURL == "" {
		return errMissing("queue URL")
	}

	err := c.call(ctx, serviceSQS, "DeleteQueue", func(ctx context.Context) error {
		_, err := c.sqs.DeleteQueue(ctx, &sqs.DeleteQueueInput{
			QueueUrl: aws.String(queueURL),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete queue %s: %w", queueURL, err)
	}
	return nil
}
