package awscloud

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/rs/zerolog"
)

const (
	serviceEC2 = "ec2"
	serviceS3  = "s3"
	serviceSQS = "sqs"
	serviceSTS = "sts"
)

// EC2API is the subset of the EC2 client used by RealClient.
type EC2API interface {
	RunInstances(ctx context.Context, params *ec2.RunInstancesInput, optFns ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error)
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	TerminateInstances(ctx context.Context, params *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error)
}

// S3API is the subset of the S3 client used by RealClient.
type S3API interface {
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutBucketTagging(ctx context.Context, params *s3.PutBucketTaggingInput, optFns ...func(*s3.Options)) (*s3.PutBucketTaggingOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	DeleteBucket(ctx context.Context, params *s3.DeleteBucketInput, optFns ...func(*s3.Options)) (*s3.DeleteBucketOutput, error)
}

// SQSAPI is the subset of the SQS client used by RealClient.
type SQSAPI interface {
	CreateQueue(ctx context.Context, params *sqs.CreateQueueInput, optFns ...func(*sqs.Options)) (*sqs.CreateQueueOutput, error)
	ListQueues(ctx context.Context, params *sqs.ListQueuesInput, optFns ...func(*sqs.Options)) (*sqs.ListQueuesOutput, error)
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
	GetQueueAttributes(ctx context.Context, params *sqs.GetQueueAttributesInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueAttributesOutput, error)
	DeleteQueue(ctx context.Context, params *sqs.DeleteQueueInput, optFns ...func(*sqs.Options)) (*sqs.DeleteQueueOutput, error)
}

// STSAPI is the subset of the STS client used by RealClient.
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Options configures client construction.
type Options struct {
	Region      string
	Profile     string
	EndpointURL string

	// CallTimeout bounds every individual API call (0 disables it).
	CallTimeout time.Duration

	// Metrics records every API call when non-nil.
	Metrics *Metrics

	// Logger enables SDK request and retry logging when non-nil.
	Logger *zerolog.Logger
}

// RealClient implements CloudManager using aws-sdk-go-v2.
type RealClient struct {
	ec2 EC2API
	s3  S3API
	sqs SQSAPI
	sts STSAPI

	region      string
	callTimeout time.Duration
	metrics     *Metrics
}

// Ensure interface compliance
var _ CloudManager = (*RealClient)(nil)

// NewRealClient loads the shared AWS configuration and creates all clients.
//
// Credentials come from exactly one source: the SDK default chain,
// optionally narrowed to a named profile.
func NewRealClient(ctx context.Context, opts Options) (*RealClient, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(opts.Profile))
	}
	if opts.Logger != nil {
		loadOpts = append(loadOpts,
			awsconfig.WithLogger(NewSDKLogger(*opts.Logger)),
			awsconfig.WithClientLogMode(aws.LogRetries|aws.LogRequest|aws.LogResponse),
		)
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewFromConfig(cfg, opts), nil
}

// NewFromConfig creates all clients from an already loaded AWS config.
func NewFromConfig(cfg aws.Config, opts Options) *RealClient {
	c := &RealClient{
		region:      cfg.Region,
		callTimeout: opts.CallTimeout,
		metrics:     opts.Metrics,
	}

	if opts.EndpointURL == "" {
		c.ec2 = ec2.NewFromConfig(cfg)
		c.s3 = s3.NewFromConfig(cfg)
		c.sqs = sqs.NewFromConfig(cfg)
		c.sts = sts.NewFromConfig(cfg)
		return c
	}

	endpoint := opts.EndpointURL
	c.ec2 = ec2.NewFromConfig(cfg, func(o *ec2.Options) { o.BaseEndpoint = aws.String(endpoint) })
	c.s3 = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})
	c.sqs = sqs.NewFromConfig(cfg, func(o *sqs.Options) { o.BaseEndpoint = aws.String(endpoint) })
	c.sts = sts.NewFromConfig(cfg, func(o *sts.Options) { o.BaseEndpoint = aws.String(endpoint) })
	return c
}

// Region returns the region all clients are bound to.
func (c *RealClient) Region() string {
	return c.region
}

// call runs one API call under the per-call timeout and records its metrics.
func (c *RealClient) call(ctx context.Context, service, operation string, fn func(context.Context) error) error {
	if c.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)
	c.metrics.Observe(service, operation, time.Since(start), err)
	return err
}

// sortedKeys returns the keys of a tag map in a stable order.
func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
