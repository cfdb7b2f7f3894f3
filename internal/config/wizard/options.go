package wizard

import (
	"github.com/charmbracelet/huh"

	"github.com/cloudprobe/cloudprobe/internal/config"
)

// RegionOption represents an AWS region.
type RegionOption struct {
	Value       string
	Label       string
	Description string
}

// InstanceTypeOption represents an EC2 instance type.
type InstanceTypeOption struct {
	Value       string
	Label       string
	Description string
	FreeTier    bool
}

// Regions contains the AWS regions offered by the wizard.
var Regions = []RegionOption{
	{Value: "us-east-1", Label: "us-east-1", Description: "N. Virginia, USA"},
	{Value: "us-east-2", Label: "us-east-2", Description: "Ohio, USA"},
	{Value: "us-west-2", Label: "us-west-2", Description: "Oregon, USA"},
	{Value: "eu-central-1", Label: "eu-central-1", Description: "Frankfurt, Germany"},
	{Value: "eu-west-1", Label: "eu-west-1", Description: "Ireland"},
	{Value: "ap-southeast-1", Label: "ap-southeast-1", Description: "Singapore"},
}

// InstanceTypes contains small instance types suited to a probe run.
var InstanceTypes = []InstanceTypeOption{
	{Value: "t2.micro", Label: "t2.micro", Description: "1 vCPU, 1GB RAM", FreeTier: true},
	{Value: "t3.micro", Label: "t3.micro", Description: "2 vCPU, 1GB RAM", FreeTier: true},
	{Value: "t3.small", Label: "t3.small", Description: "2 vCPU, 2GB RAM"},
	{Value: "t4g.micro", Label: "t4g.micro", Description: "2 vCPU, 1GB RAM (ARM)"},
}

// WaitStrategyOptions contains the wait strategy choices.
var WaitStrategyOptions = []huh.Option[string]{
	huh.NewOption("Sleep fixed delays (Default)", string(config.WaitStrategySleep)),
	huh.NewOption("Poll readiness", string(config.WaitStrategyPoll)),
}

// FailurePolicyOptions contains the failure policy choices.
var FailurePolicyOptions = []huh.Option[string]{
	huh.NewOption("Continue after failures (Recommended)", string(config.FailurePolicyContinue)),
	huh.NewOption("Abort to cleanup on first failure", string(config.FailurePolicyAbort)),
}

// RegionsToOptions converts the Regions slice to huh options.
func RegionsToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(Regions))
	for i, r := range Regions {
		opts[i] = huh.NewOption(r.Label+" - "+r.Description, r.Value)
	}
	return opts
}

// InstanceTypesToOptions converts an InstanceTypeOption slice to huh options.
func InstanceTypesToOptions(types []InstanceTypeOption) []huh.Option[string] {
	opts := make([]huh.Option[string], len(types))
	for i, it := range types {
		label := it.Label + " - " + it.Description
		if it.FreeTier {
			label += " (free tier)"
		}
		opts[i] = huh.NewOption(label, it.Value)
	}
	return opts
}
