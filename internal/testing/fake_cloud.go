package testing

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/aws/smithy-go"

	"github.com/cloudprobe/cloudprobe/internal/platform/awscloud"
)

// Operation names accepted by FailOn and Calls.
const (
	OpCreateInstance    = "CreateInstance"
	OpListInstances     = "ListInstances"
	OpGetInstance       = "GetInstance"
	OpTerminateInstance = "TerminateInstance"
	OpCreateBucket      = "CreateBucket"
	OpBucketExists      = "BucketExists"
	OpListBuckets       = "ListBuckets"
	OpPutObject         = "PutObject"
	OpEmptyBucket       = "EmptyBucket"
	OpDeleteBucket      = "DeleteBucket"
	OpCreateQueue       = "CreateQueue"
	OpListQueues        = "ListQueues"
	OpSendMessage       = "SendMessage"
	OpReceiveMessage    = "ReceiveMessage"
	OpDeleteMessage     = "DeleteMessage"
	OpCountMessages     = "CountMessages"
	OpDeleteQueue       = "DeleteQueue"
	OpCallerIdentity    = "CallerIdentity"
)

// FakeAccount is the account id reported by FakeCloud.
const FakeAccount = "111122223333"

// APIError builds a smithy API error with the given code, as returned by AWS.
func APIError(code, message string) error {
	return &smithy.GenericAPIError{Code: code, Message: message}
}

// FakeCloud is a stateful in-memory awscloud.CloudManager.
//
// Instances start pending and move to running after InstanceStateLag
// observations; terminated instances pass through shutting-down the same
// way. Deleted queues stay listed for QueueListingLag more ListQueues calls.
// Queues implement FIFO delivery with content-based deduplication and
// in-flight tracking of received messages.
type FakeCloud struct {
	// InstanceStateLag is the number of observations an instance stays in a
	// transitional state.
	InstanceStateLag int

	// QueueListingLag is the number of ListQueues calls a deleted queue
	// is still returned by.
	QueueListingLag int

	// DropMessageNames drops the name attribute of sent messages.
	DropMessageNames bool

	mu        sync.Mutex
	region    string
	nextID    int
	instances []*fakeInstance
	buckets   map[string]*fakeBucket
	queues    map[string]*fakeQueue
	failures  map[string]error
	calls     map[string]int
}

type fakeInstance struct {
	id           string
	state        string
	instanceType string
	tags         map[string]string
	launched     time.Time
	observations int
}

type fakeBucket struct {
	objects map[string][]byte
	tags    map[string]string
}

type fakeQueue struct {
	name             string
	url              string
	attrs            map[string]string
	tags             map[string]string
	deleted          bool
	listingsLeft     int
	messages         []*fakeMessage
	dedup            map[string]string // body -> message id
	nextReceiptIndex int
}

type fakeMessage struct {
	id            string
	body          string
	name          string
	hasName       bool
	groupID       string
	receiptHandle string
}

// Ensure interface compliance
var _ awscloud.CloudManager = (*FakeCloud)(nil)

// NewFakeCloud creates an empty fake cloud for a region.
func NewFakeCloud(region string) *FakeCloud {
	return &FakeCloud{
		InstanceStateLag: 1,
		region:           region,
		buckets:          make(map[string]*fakeBucket),
		queues:           make(map[string]*fakeQueue),
		failures:         make(map[string]error),
		calls:            make(map[string]int),
	}
}

// FailOn makes every call of op return err until ClearFailure is called.
func (f *FakeCloud) FailOn(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op] = err
}

// ClearFailure removes an injected failure.
func (f *FakeCloud) ClearFailure(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, op)
}

// Calls returns how often op was called.
func (f *FakeCloud) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// begin locks the fake, counts the call and returns any injected failure.
// The caller must unlock.
func (f *FakeCloud) begin(ctx context.Context, op string) error {
	f.mu.Lock()
	f.calls[op]++
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.failures[op]
}

// Region returns the fake's region.
func (f *FakeCloud) Region() string {
	return f.region
}

// CreateInstance creates a pending instance.
func (f *FakeCloud) CreateInstance(ctx context.Context, spec awscloud.InstanceSpec) (string, error) {
	defer f.mu.Unlock()
	if err := f.begin(ctx, OpCreateInstance); err != nil {
		return "", err
	}
	f.nextID++
	inst := &fakeInstance{
		id:           fmt.Sprintf("i-%017x", f.nextID),
		state:        awscloud.InstanceStatePending,
		instanceType: spec.InstanceType,
		tags:         maps.Clone(spec.Tags),
		launched:     time.Now(),
	}
	f.instances = append(f.instances, inst)
	return inst.id, nil
}

// ListInstances returns all instances, advancing their lifecycle.
func (f *FakeCloud) ListInstances(ctx context.Context) ([]awscloud.Instance, error) {
	defer f.mu.Unlock()
	if err := f.begin(ctx, OpListInstances); err != nil {
		return nil, err
	}
	result := make([]awscloud.Instance, 0, len(f.instances))
	for _, inst := range f.instances {
		result = append(result, f.observe(inst))
	}
	return result, nil
}

// GetInstance returns one instance, advancing its lifecycle.
func (f *FakeCloud) GetInstance(ctx context.Context, id string) (*awscloud.Instance, error) {
	defer f.mu.Unlock()
	if err := f.begin(ctx, OpGetInstance); err != nil {
		return nil, err
	}
	inst := f.findInstance(id)
	if inst == nil {
		return nil, nil
	}
	observed := f.observe(inst)
	return &observed, nil
}

// TerminateInstance moves an instance to shutting-down.
func (f *FakeCloud) TerminateInstance(ctx context.Context, id string) error {
	defer f.mu.Unlock()
	if err := f.begin(ctx, OpTerminateInstance); err != nil {
		return err
	}
	inst := f.findInstance(id)
	if inst == nil {
		return APIError("InvalidInstanceID.NotFound", fmt.Sprintf("The instance ID '%s' does not exist", id))
	}
	if inst.state != awscloud.InstanceStateTerminated {
		inst.state = awscloud.InstanceStateShuttingDown
		inst.observations = 0
	}
	return nil
}

func (f *FakeCloud) findInstance(id string) *fakeInstance {
	for _, inst := range f.instances {
		if inst.id == id {
			return inst
		}
	}
	return nil
}

// observe returns the instance as currently seen and advances transitional states.
func (f *FakeCloud) observe(inst *fakeInstance) awscloud.Instance {
	seen := awscloud.Instance{ID: inst.id, State: inst.state, Type: inst.instanceType, LaunchTime: inst.launched}
	switch inst.state {
	case awscloud.InstanceStatePending, awscloud.InstanceStateShuttingDown:
		inst.observations++
		if inst.observations > f.InstanceStateLag {
			if inst.state == awscloud.InstanceStatePending {
				inst.state = awscloud.InstanceStateRunning
			} else {
				inst.state = awscloud.InstanceStateTerminated
			}
			inst.observations = 0
			seen.State = inst.state
		}
	}
	return seen
}

// CreateBucket creates a bucket. Creating an existing bucket succeeds.
func (f *FakeCloud) CreateBucket(ctx context.Context, name string, tags map[string]string) error {
	defer f.mu.Unlock()
	if err := f.begin(ctx, OpCreateBucket); err != nil {
		return err
	}
	if _, ok := f.buckets[name]; !ok {
		f.buckets[name] = &fakeBucket{objects: make(map[string][]byte)}
	}
	f.buckets[name].tags = maps.Clone(tags)
	return nil
}

// BucketExists reports whether a bucket exists.
func (f *FakeCloud) BucketExists(ctx context.Context, name string) (bool, error) {
	defer f.mu.Unlock()
	if err := f.begin(ctx, OpBucketExists); err != nil {
		return false, err
	}
	_, ok := f.buckets[name]
	return ok, nil
}

// ListBuckets returns all bucket names in sorted order.
func (f *FakeCloud) ListBuckets(ctx context.Context) ([]string, error) {
	defer f.mu.Unlock()
	if err := f.begin(ctx, OpListBuckets); err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(f.buckets)), nil
}

// PutObject stores an object.
func (f *FakeCloud) PutObject(ctx context.Context, bucket, key string, data []byte) error {
	defer f.mu.Unlock()
	if err := f.begin(ctx, OpPutObject); err != nil {
		return err
	}
	b, ok := f.buckets[bucket]
	if !ok {
		return APIError("NoSuchBucket", "The specified bucket does not exist")
	}
	b.objects[key] = slices.Clone(data)
	return nil
}

// EmptyBucket deletes all objects of a bucket.
func (f *FakeCloud) EmptyBucket(ctx context.Context, bucket string) (int, error) {
	defer f.mu.Unlock()
	if err := f.begin(ctx, OpEmptyBucket); err != nil {
		return 0, err
	}
	b, ok := f.buckets[bucket]
	if !ok {
		return 0, APIError("NoSuchBucket", "The specified bucket does not exist")
	}
	n := len(b.objects)
	clear(b.objects)
	return n, nil
}

// DeleteBucket deletes an empty bucket.
func (f *FakeCloud) DeleteBucket(ctx context.Context, bucket string) error {
	defer f.mu.Unlock()
	if err := f.begin(ctx, OpDeleteBucket); err != nil {
		return err
	}
	b, ok := f.buckets[bucket]
	if !ok {
		return APIError("NoSuchBucket", "The specified bucket does not exist")
	}
	if len(b.objects) > 0 {
		return APIError("BucketNotEmpty", "The bucket you tried to delete is not empty")
	}
	delete(f.buckets, bucket)
	return nil
}

// CreateQueue creates a queue or returns the URL of an existing one.
func (f *FakeCloud) CreateQueue(ctx context.Context, spec awscloud.QueueSpec) (string, error) {
	defer f.mu.Unlock()
	if err := f.begin(ctx, OpCreateQueue); err != nil {
		return "", err
	}
	url := fmt.Sprintf("https://sqs.%s.amazonaws.com/%s/%s", f.region, FakeAccount, spec.Name)
	if q, ok := f.queues[url]; ok {
		if q.deleted {
			return "", APIError("AWS.SimpleQueueService.QueueDeletedRecently",
				"You must wait 60 seconds after deleting a queue before you can create another queue with the same name.")
		}
		return url, nil
	}

	attrs := map[string]string{}
	if spec.FIFO {
		attrs["FifoQueue"] = "true"
	}
	if spec.ContentBasedDeduplication {
		attrs["ContentBasedDeduplication"] = "true"
	}
	f.queues[url] = &fakeQueue{
		name:  spec.Name,
		url:   url,
		attrs: attrs,
		tags:  maps.Clone(spec.Tags),
		dedup: make(map[string]string),
	}
	return url, nil
}

// ListQueues returns all listed queue URLs in sorted order.
func (f *FakeCloud) ListQueues(ctx context.Context) ([]string, error) {
	defer f.mu.Unlock()
	if err := f.begin(ctx, OpListQueues); err != nil {
		return nil, err
	}
	var urls []string
	for _, url := range slices.Sorted(maps.Keys(f.queues)) {
		q := f.queues[url]
		if q.deleted {
			if q.listingsLeft <= 0 {
				delete(f.queues, url)
				continue
			}
			q.listingsLeft--
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (f *FakeCloud) liveQueue(url string) (*fakeQueue, error) {
	q, ok := f.queues[url]
	if !ok || q.deleted {
		return nil, APIError("AWS.SimpleQueueService.NonExistentQueue", "The specified queue does not exist.")
	}
	return q, nil
}

// SendMessage enqueues a message. With content-based deduplication an
// identical body is accepted but not enqueued twice.
func (f *FakeCloud) SendMessage(ctx context.Context, queueURL string, msg awscloud.OutgoingMessage) (string, error) {
	defer f.mu.Unlock()
	if err := f.begin(ctx, OpSendMessage); err != nil {
		return "", err
	}
	q, err := f.liveQueue(queueURL)
	if err != nil {
		return "", err
	}
	if q.attrs["FifoQueue"] == "true" && msg.GroupID == "" {
		return "", APIError("MissingParameter", "The request must contain the parameter MessageGroupId.")
	}
	if q.attrs["ContentBasedDeduplication"] == "true" {
		if id, ok := q.dedup[msg.Body]; ok {
			return id, nil
		}
	}

	f.nextID++
	m := &fakeMessage{
		id:      fmt.Sprintf("msg-%d", f.nextID),
		body:    msg.Body,
		groupID: msg.GroupID,
	}
	if msg.Name != "" && !f.DropMessageNames {
		m.name = msg.Name
		m.hasName = true
	}
	q.messages = append(q.messages, m)
	q.dedup[msg.Body] = m.id
	return m.id, nil
}

// ReceiveMessage returns the oldest visible message and marks it in flight.
func (f *FakeCloud) ReceiveMessage(ctx context.Context, queueURL string, _ time.Duration) (*awscloud.Message, error) {
	defer f.mu.Unlock()
	if err := f.begin(ctx, OpReceiveMessage); err != nil {
		return nil, err
	}
	q, err := f.liveQueue(queueURL)
	if err != nil {
		return nil, err
	}
	for _, m := range q.messages {
		if m.receiptHandle != "" {
			continue
		}
		q.nextReceiptIndex++
		m.receiptHandle = fmt.Sprintf("%s-receipt-%d", m.id, q.nextReceiptIndex)
		return &awscloud.Message{
			ID:            m.id,
			Body:          m.body,
			Name:          m.name,
			HasName:       m.hasName,
			ReceiptHandle: m.receiptHandle,
		}, nil
	}
	return nil, nil
}

// DeleteMessage removes an in-flight message.
func (f *FakeCloud) DeleteMessage(ctx context.Context, queueURL, receiptHandle string) error {
	defer f.mu.Unlock()
	if err := f.begin(ctx, OpDeleteMessage); err != nil {
		return err
	}
	q, err := f.liveQueue(queueURL)
	if err != nil {
		return err
	}
	for i, m := range q.messages {
		if m.receiptHandle == receiptHandle {
			q.messages = slices.Delete(q.messages, i, i+1)
			return nil
		}
	}
	return APIError("ReceiptHandleIsInvalid", "The input receipt handle is invalid.")
}

// CountMessages returns the number of visible (not in-flight) messages.
func (f *FakeCloud) CountMessages(ctx context.Context, queueURL string) (int, error) {
	defer f.mu.Unlock()
	if err := f.begin(ctx, OpCountMessages); err != nil {
		return 0, err
	}
	q, err := f.liveQueue(queueURL)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, m := range q.messages {
		if m.receiptHandle == "" {
			n++
		}
	}
	return n, nil
}

// DeleteQueue deletes a queue; it stays listed for QueueListingLag listings.
func (f *FakeCloud) DeleteQueue(ctx context.Context, queueURL string) error {
	defer f.mu.Unlock()
	if err := f.begin(ctx, OpDeleteQueue); err != nil {
		return err
	}
	q, err := f.liveQueue(queueURL)
	if err != nil {
		return err
	}
	q.deleted = true
	q.listingsLeft = f.QueueListingLag
	q.messages = nil
	return nil
}

// CallerIdentity returns a fixed identity.
func (f *FakeCloud) CallerIdentity(ctx context.Context) (*awscloud.Identity, error) {
	defer f.mu.Unlock()
	if err := f.begin(ctx, OpCallerIdentity); err != nil {
		return nil, err
	}
	return &awscloud.Identity{
		Account: FakeAccount,
		ARN:     "arn:aws:iam::" + FakeAccount + ":user/fake",
		UserID:  "AIDAFAKE",
	}, nil
}

// InstanceState returns the current state of an instance without advancing it.
func (f *FakeCloud) InstanceState(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if inst := f.findInstance(id); inst != nil {
		return inst.state
	}
	return ""
}

// InstanceTags returns the tags an instance was created with.
func (f *FakeCloud) InstanceTags(id string) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if inst := f.findInstance(id); inst != nil {
		return maps.Clone(inst.tags)
	}
	return nil
}

// HasBucket reports whether a bucket exists.
func (f *FakeCloud) HasBucket(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.buckets[name]
	return ok
}

// Object returns the content of an object and whether it exists.
func (f *FakeCloud) Object(bucket, key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.buckets[bucket]
	if !ok {
		return nil, false
	}
	data, ok := b.objects[key]
	return data, ok
}

// BucketTags returns a bucket's tags.
func (f *FakeCloud) BucketTags(name string) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.buckets[name]; ok {
		return maps.Clone(b.tags)
	}
	return nil
}

// QueueExists reports whether a queue exists and was not deleted.
func (f *FakeCloud) QueueExists(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.queues[url]
	return ok && !q.deleted
}

// QueueAttributes returns a queue's attributes.
func (f *FakeCloud) QueueAttributes(url string) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if q, ok := f.queues[url]; ok {
		return maps.Clone(q.attrs)
	}
	return nil
}

// QueueTags returns a queue's tags.
func (f *FakeCloud) QueueTags(url string) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if q, ok := f.queues[url]; ok {
		return maps.Clone(q.tags)
	}
	return nil
}
