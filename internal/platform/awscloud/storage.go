package awscloud

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// defaultBucketRegion is the region in which CreateBucket must not carry
// a location constraint.
const defaultBucketRegion = "us-east-1"

// CreateBucket creates a bucket in the client's region and tags it.
// Returns nil if the bucket already exists and is owned by us.
// A tagging failure after a successful create is reported as ErrTagging
// so callers can still track the bucket.
func (c *RealClient) CreateBucket(ctx context.Context, name string, tags map[string]string) error {
	input := &s3.CreateBucketInput{
		Bucket: aws.String(name),
	}
	if c.region != "" && c.region != defaultBucketRegion {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(c.region),
		}
	}

	err := c.call(ctx, serviceS3, "CreateBucket", func(ctx context.Context) error {
		_, err := c.s3.CreateBucket(ctx, input)
		return err
	})
	if err != nil && !isBucketAlreadyOwnedByYou(err) {
		return fmt.Errorf("failed to create bucket %s: %w", name, err)
	}

	if len(tags) == 0 {
		return nil
	}

	err = c.call(ctx, serviceS3, "PutBucketTagging", func(ctx context.Context) error {
		_, err := c.s3.PutBucketTagging(ctx, &s3.PutBucketTaggingInput{
			Bucket:  aws.String(name),
			Tagging: &s3types.Tagging{TagSet: s3Tags(tags)},
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: bucket %s: %w", ErrTagging, name, err)
	}
	return nil
}

// BucketExists checks if a bucket exists and is accessible.
func (c *RealClient) BucketExists(ctx context.Context, name string) (bool, error) {
	err := c.call(ctx, serviceS3, "HeadBucket", func(ctx context.Context) error {
		_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{
			Bucket: aws.String(name),
		})
		return err
	})
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check bucket %s: %w", name, err)
	}
	return true, nil
}

// ListBuckets returns the names of all buckets owned by the caller.
func (c *RealClient) ListBuckets(ctx context.Context) ([]string, error) {
	paginator := s3.NewListBucketsPaginator(c.s3, &s3.ListBucketsInput{})

	var names []string
	for paginator.HasMorePages() {
		var page *s3.ListBucketsOutput
		err := c.call(ctx, serviceS3, "ListBuckets", func(ctx context.Context) error {
			var err error
			page, err = paginator.NextPage(ctx)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list buckets: %w", err)
		}

		for _, b := range page.Buckets {
			if b.Name != nil {
				names = append(names, *b.Name)
			}
		}
	}
	return names, nil
}

// PutObject uploads an object to a bucket.
func (c *RealClient) PutObject(ctx context.Context, bucket, key string, data []byte) error {
	err := c.call(ctx, serviceS3, "PutObject", func(ctx context.Context) error {
		_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(bucket),
			Key:           aws.String(key),
			Body:          bytes.NewReader(data),
			ContentLength: aws.Int64(int64(len(data))),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s in bucket %s: %w", key, bucket, err)
	}
	return nil
}

// EmptyBucket deletes every object in the bucket, one listing page at a time.
func (c *RealClient) EmptyBucket(ctx context.Context, bucket string) (int, error) {
	paginator := s3.NewListObjectsV2Paginator(c.s3, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	})

	deleted := 0
	for paginator.HasMorePages() {
		var page *s3.ListObjectsV2Output
		err := c.call(ctx, serviceS3, "ListObjectsV2", func(ctx context.Context) error {
			var err error
			page, err = paginator.NextPage(ctx)
			return err
		})
		if err != nil {
			return deleted, fmt.Errorf("failed to list objects in bucket %s: %w", bucket, err)
		}
		if len(page.Contents) == 0 {
			continue
		}

		ids := make([]s3types.ObjectIdentifier, 0, len(page.Contents))
		for _, obj := range page.Contents {
			ids = append(ids, s3types.ObjectIdentifier{Key: obj.Key})
		}

		var out *s3.DeleteObjectsOutput
		err = c.call(ctx, serviceS3, "DeleteObjects", func(ctx context.Context) error {
			var err error
			out, err = c.s3.DeleteObjects(ctx, &s3.DeleteObjectsInput{
				Bucket: aws.String(bucket),
				Delete: &s3types.Delete{Objects: ids, Quiet: aws.Bool(true)},
			})
			return err
		})
		if err != nil {
			return deleted, fmt.Errorf("failed to delete objects from bucket %s: %w", bucket, err)
		}
		if len(out.Errors) > 0 {
			first := out.Errors[0]
			return deleted + len(ids) - len(out.Errors), fmt.Errorf("failed to delete object %s from bucket %s: %s",
				aws.ToString(first.Key), bucket, aws.ToString(first.Message))
		}
		deleted += len(ids)
	}
	return deleted, nil
}

// DeleteBucket deletes a bucket. The bucket must be empty.
func (c *RealClient) DeleteBucket(ctx context.Context, bucket string) error {
	if bucket == "" {
		return errMissing("bucket name")
	}

	err := c.call(ctx, serviceS3, "DeleteBucket", func(ctx context.Context) error {
		_, err := c.s3.DeleteBucket(ctx, &s3.DeleteBucketInput{
			Bucket: aws.String(bucket),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete bucket %s: %w", bucket, err)
	}
	return nil
}

func s3Tags(tags map[string]string) []s3types.Tag {
	result := make([]s3types.Tag, 0, len(tags))
	for _, k := range sortedKeys(tags) {
		result = append(result, s3types.Tag{Key: aws.String(k), Value: aws.String(tags[k])})
	}
	return result
}
