package awscloud

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// CreateInstance launches exactly one instance and returns its id.
func (c *RealClient) CreateInstance(ctx context.Context, spec InstanceSpec) (string, error) {
	input := &ec2.RunInstancesInput{
		ImageId:      aws.String(spec.ImageID),
		InstanceType: ec2types.InstanceType(spec.InstanceType),
		MinCount:     aws.Int32(1),
		MaxCount:     aws.Int32(1),
	}
	if spec.KeyName != "" {
		input.KeyName = aws.String(spec.KeyName)
	}
	if len(spec.Tags) > 0 {
		input.TagSpecifications = []ec2types.TagSpecification{
			{ResourceType: ec2types.ResourceTypeInstance, Tags: ec2Tags(spec.Tags)},
		}
	}

	var out *ec2.RunInstancesOutput
	err := c.call(ctx, serviceEC2, "RunInstances", func(ctx context.Context) error {
		var err error
		out, err = c.ec2.RunInstances(ctx, input)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to create instance from image %s: %w", spec.ImageID, err)
	}

	if len(out.Instances) == 0 || out.Instances[0].InstanceId == nil {
		return "", fmt.Errorf("failed to create instance from image %s: no instance returned", spec.ImageID)
	}
	return *out.Instances[0].InstanceId, nil
}

// ListInstances returns every instance visible in the region.
func (c *RealClient) ListInstances(ctx context.Context) ([]Instance, error) {
	paginator := ec2.NewDescribeInstancesPaginator(c.ec2, &ec2.DescribeInstancesInput{})

	var instances []Instance
	for paginator.HasMorePages() {
		var page *ec2.DescribeInstancesOutput
		err := c.call(ctx, serviceEC2, "DescribeInstances", func(ctx context.Context) error {
			var err error
			page, err = paginator.NextPage(ctx)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list instances: %w", err)
		}

		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				instances = append(instances, toInstance(inst))
			}
		}
	}
	return instances, nil
}

// GetInstance returns the instance by id, or nil if it does not exist.
func (c *RealClient) GetInstance(ctx context.Context, id string) (*Instance, error) {
	if id == "" {
		return nil, errMissing("instance id")
	}

	var out *ec2.DescribeInstancesOutput
	err := c.call(ctx, serviceEC2, "DescribeInstances", func(ctx context.Context) error {
		var err error
		out, err = c.ec2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
			InstanceIds: []string{id},
		})
		return err
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe instance %s: %w", id, err)
	}

	for _, reservation := range out.Reservations {
		for _, inst := range reservation.Instances {
			if aws.ToString(inst.InstanceId) == id {
				instance := toInstance(inst)
				return &instance, nil
			}
		}
	}
	return nil, nil
}

// TerminateInstance terminates the instance. Termination is asynchronous:
// the instance passes through shutting-down before it is terminated.
func (c *RealClient) TerminateInstance(ctx context.Context, id string) error {
	if id == "" {
		return errMissing("instance id")
	}

	err := c.call(ctx, serviceEC2, "TerminateInstances", func(ctx context.Context) error {
		_, err := c.ec2.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
			InstanceIds: []string{id},
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to terminate instance %s: %w", id, err)
	}
	return nil
}

func toInstance(inst ec2types.Instance) Instance {
	instance := Instance{
		ID:         aws.ToString(inst.InstanceId),
		Type:       string(inst.InstanceType),
		LaunchTime: aws.ToTime(inst.LaunchTime),
	}
	if inst.State != nil {
		instance.State = string(inst.State.Name)
	}
	return instance
}

func ec2Tags(tags map[string]string) []ec2types.Tag {
	result := make([]ec2types.Tag, 0, len(tags))
	for _, k := range sortedKeys(tags) {
		result = append(result, ec2types.Tag{Key: aws.String(k), Value: aws.String(tags[k])})
	}
	return result
}
