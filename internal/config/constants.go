package config

// Default resource settings.
const (
	DefaultRegion         = "us-east-2"
	DefaultImageID        = "ami-0c55b159cbfafe1f0"
	DefaultInstanceType   = "t2.micro"
	DefaultBucketPrefix   = "cloudprobe"
	DefaultQueueName      = "cloudprobe-queue.fifo"
	DefaultMessageGroupID = "messageGroup1"
)

// Default exercise payloads.
const (
	DefaultObjectKey     = "CSE546test.txt"
	DefaultObjectContent = ""
	DefaultMessageBody   = "This is a test message"
	DefaultMessageName   = "test message"
)

// MissingMessageName is reported when a received message has no name attribute.
const MissingMessageName = "No name provided"
