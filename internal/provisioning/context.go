package provisioning

import (
	"context"
	"time"

	"github.com/cloudprobe/cloudprobe/internal/config"
	"github.com/cloudprobe/cloudprobe/internal/platform/awscloud"
	"github.com/cloudprobe/cloudprobe/internal/util/naming"
	"github.com/cloudprobe/cloudprobe/internal/util/tags"
)

// State holds the shared results of lifecycle phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// Created resources (populated by the create phase)
	InstanceID string
	BucketName string
	QueueURL   string

	// Latest listings (populated by the inventory phases)
	Instances []awscloud.Instance
	Buckets   []string
	Queues    []string

	// Exercise results
	ObjectUploaded bool
	SentMessageID  string
	InitialDepth   int
	FinalDepth     int
	Received       *awscloud.Message

	// Cleanup results
	InstanceTerminated     bool
	BucketDeleted          bool
	QueueDeleted           bool
	QueueDeletionConfirmed bool
}

// NewState creates an empty lifecycle state.
func NewState() *State {
	return &State{
		InitialDepth: -1,
		FinalDepth:   -1,
	}
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Context wraps all dependencies and state needed for a lifecycle phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Cloud    awscloud.CloudManager
	Observer Observer
	Timeouts *config.Timeouts
	Report   *Report
	RunID    string

	// Sleep implements fixed delays; replaced in tests.
	Sleep SleepFunc
}

// NewContext creates a new lifecycle context with a fresh run id.
func NewContext(
	ctx context.Context,
	cfg *config.Config,
	cloud awscloud.CloudManager,
	observer Observer,
) *Context {
	runID := naming.RunID()
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		Cloud:    cloud,
		Observer: observer.WithFields(map[string]string{"run": shortRunID(runID)}),
		Timeouts: config.LoadTimeouts(),
		Report:   NewReport(runID),
		RunID:    runID,
		Sleep:    SleepContext,
	}
}

// WithContext returns a shallow copy of c bound to ctx. State and Report
// are shared with c.
func (c *Context) WithContext(ctx context.Context) *Context {
	cp := *c
	cp.Context = ctx
	return &cp
}

// Tags returns the tags for one run resource, including user tags.
func (c *Context) Tags(resource, name string) map[string]string {
	b := tags.NewTagBuilder(c.RunID)
	if c.Config != nil {
		b = b.Merge(c.Config.Tags)
	}
	return b.WithResource(resource).WithName(name).Build()
}

// SleepContext waits for d, returning early with ctx.Err() if ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func shortRunID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}
