package awscloud

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// CallerIdentity resolves the account and principal behind the credentials.
func (c *RealClient) CallerIdentity(ctx context.Context) (*Identity, error) {
	var out *sts.GetCallerIdentityOutput
	err := c.call(ctx, serviceSTS, "GetCallerIdentity", func(ctx context.Context) error {
		var err error
		out, err = c.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve caller identity: %w", err)
	}

	return &Identity{
		Account: aws.ToString(out.Account),
		ARN:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}
