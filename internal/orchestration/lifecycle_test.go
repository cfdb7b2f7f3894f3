package orchestration_test

import (
	"context"
	"slices"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cloudprobe/cloudprobe/internal/config"
	"github.com/cloudprobe/cloudprobe/internal/orchestration"
	"github.com/cloudprobe/cloudprobe/internal/platform/awscloud"
	"github.com/cloudprobe/cloudprobe/internal/provisioning"
	cptest "github.com/cloudprobe/cloudprobe/internal/testing"
	"github.com/cloudprobe/cloudprobe/internal/util/naming"
	"github.com/cloudprobe/cloudprobe/internal/util/tags"
)

// recordingCloud remembers what the run created so specs can inspect it
// after cleanup.
type recordingCloud struct {
	*cptest.FakeCloud
	instanceID string
	bucket     string
	queueURL   string
	received   *awscloud.Message
	depths     []int
}

func (c *recordingCloud) CreateInstance(ctx context.Context, spec awscloud.InstanceSpec) (string, error) {
	id, err := c.FakeCloud.CreateInstance(ctx, spec)
	c.instanceID = id
	return id, err
}

func (c *recordingCloud) CreateBucket(ctx context.Context, name string, t map[string]string) error {
	c.bucket = name
	return c.FakeCloud.CreateBucket(ctx, name, t)
}

func (c *recordingCloud) CreateQueue(ctx context.Context, spec awscloud.QueueSpec) (string, error) {
	url, err := c.FakeCloud.CreateQueue(ctx, spec)
	c.queueURL = url
	return url, err
}

func (c *recordingCloud) ReceiveMessage(ctx context.Context, url string, wait time.Duration) (*awscloud.Message, error) {
	msg, err := c.FakeCloud.ReceiveMessage(ctx, url, wait)
	c.received = msg
	return msg, err
}

func (c *recordingCloud) CountMessages(ctx context.Context, url string) (int, error) {
	n, err := c.FakeCloud.CountMessages(ctx, url)
	if err == nil {
		c.depths = append(c.depths, n)
	}
	return n, err
}

var _ = Describe("Lifecycle", func() {
	var (
		ctx      context.Context
		cloud    *recordingCloud
		cfg      *config.Config
		observer *cptest.MemoryObserver
		report   *provisioning.Report
		runErr   error
	)

	BeforeEach(func() {
		ctx = context.Background()
		cloud = &recordingCloud{FakeCloud: cptest.NewFakeCloud("us-east-2")}
		cfg = cptest.NewConfigBuilder().WithTag("owner", "qa").Build()
		observer = cptest.NewMemoryObserver()
	})

	run := func() {
		orch := orchestration.NewOrchestrator(cloud, cfg, observer,
			orchestration.WithTimeouts(config.TestTimeouts()),
			orchestration.WithSleep((&cptest.SleepRecorder{}).Sleep),
		)
		report, runErr = orch.Run(ctx)
	}

	Context("when every call succeeds", func() {
		BeforeEach(func() {
			cloud.QueueListingLag = 2
			run()
		})

		It("completes without failures", func() {
			Expect(runErr).NotTo(HaveOccurred())
			Expect(report.Failed()).To(BeFalse())
			Expect(report.Summary()).To(HavePrefix("26 ok"))
		})

		It("names the bucket with the prefix and a UUID", func() {
			Expect(cloud.bucket).To(HavePrefix(cfg.Bucket.Prefix + "-"))
			Expect(naming.ValidBucketName(cloud.bucket)).To(BeTrue())
		})

		It("creates a FIFO queue with content-based deduplication", func() {
			Expect(cloud.queueURL).To(HaveSuffix(naming.FIFOSuffix))
			attrs := cloud.QueueAttributes(cloud.queueURL)
			Expect(attrs).To(HaveKeyWithValue("FifoQueue", "true"))
			Expect(attrs).To(HaveKeyWithValue("ContentBasedDeduplication", "true"))
		})

		It("tags every resource with the run id and user tags", func() {
			instanceTags := cloud.InstanceTags(cloud.instanceID)
			Expect(instanceTags).To(HaveKeyWithValue(tags.KeyRunID, report.RunID))
			Expect(instanceTags).To(HaveKeyWithValue(tags.KeyManagedBy, tags.ManagedByCloudprobe))
			Expect(instanceTags).To(HaveKeyWithValue("owner", "qa"))
		})

		It("preserves the message body and name", func() {
			Expect(cloud.received).NotTo(BeNil())
			Expect(cloud.received.Body).To(Equal(cfg.Exercise.MessageBody))
			Expect(cloud.received.Name).To(Equal(cfg.Exercise.MessageName))
		})

		It("counts one message after send and none after delete", func() {
			Expect(cloud.depths).To(HaveLen(3))
			Expect(cloud.depths[0]).To(Equal(1))
			Expect(cloud.depths[1:]).To(HaveEach(0))
		})

		It("removes every resource it created", func() {
			Expect(cloud.InstanceState(cloud.instanceID)).To(
				Or(Equal(awscloud.InstanceStateShuttingDown), Equal(awscloud.InstanceStateTerminated)))
			Expect(cloud.HasBucket(cloud.bucket)).To(BeFalse())
			Expect(cloud.QueueExists(cloud.queueURL)).To(BeFalse())

			queues, err := cloud.ListQueues(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(queues).NotTo(ContainElement(cloud.queueURL))
		})

		It("bounds the queue deletion poll", func() {
			steps := cptest.StepsNamed(report, "confirm queue deletion")
			Expect(steps).To(HaveLen(1))
			Expect(steps[0].Status).To(Equal(provisioning.StatusOK))
		})

		It("prints the received message", func() {
			Expect(observer.Messages()).To(ContainElement(ContainSubstring("Received message body: This is a test message")))
		})
	})

	Context("when the queue never leaves the listing", func() {
		BeforeEach(func() {
			cloud.QueueListingLag = 1000
			run()
		})

		It("warns instead of failing", func() {
			Expect(runErr).NotTo(HaveOccurred())
			Expect(cptest.StepStatus(report, "confirm queue deletion")).To(Equal(provisioning.StatusWarning))
			Expect(cptest.StepStatus(report, "list queues")).To(Equal(provisioning.StatusOK))
		})

		It("reports the queue in the final listing", func() {
			verify := slices.IndexFunc(report.Steps(), func(s provisioning.Step) bool {
				return s.Phase == "verify" && s.Name == "list queues"
			})
			Expect(verify).To(BeNumerically(">=", 0))
			Expect(report.Steps()[verify].Status).To(Equal(provisioning.StatusWarning))
		})
	})

	Context("when the instance cannot be created", func() {
		BeforeEach(func() {
			cloud.FailOn(cptest.OpCreateInstance, cptest.APIError("InsufficientInstanceCapacity", "no capacity"))
		})

		Context("with the continue policy", func() {
			BeforeEach(run)

			It("still exercises the bucket and the queue", func() {
				Expect(runErr).To(HaveOccurred())
				Expect(cptest.StepStatus(report, "upload object")).To(Equal(provisioning.StatusOK))
				Expect(cptest.StepStatus(report, "delete message")).To(Equal(provisioning.StatusOK))
				Expect(cptest.StepStatus(report, "terminate instance")).To(Equal(provisioning.StatusSkipped))
			})
		})

		Context("with the abort policy", func() {
			BeforeEach(func() {
				cfg.FailurePolicy = config.FailurePolicyAbort
				run()
			})

			It("skips straight to cleanup", func() {
				Expect(runErr).To(HaveOccurred())
				Expect(cloud.Calls(cptest.OpPutObject)).To(BeZero())
				Expect(cloud.Calls(cptest.OpSendMessage)).To(BeZero())
				Expect(cloud.HasBucket(cloud.bucket)).To(BeFalse())
				Expect(cloud.QueueExists(cloud.queueURL)).To(BeFalse())
			})

			It("names the failure in the aggregated error", func() {
				Expect(strings.Contains(report.Err().Error(), "create/create instance")).To(BeTrue())
			})
		})
	})
})
