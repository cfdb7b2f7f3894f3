package awscloud

import (
	"fmt"

	"github.com/aws/smithy-go/logging"
	"github.com/rs/zerolog"
)

// SDKLogger forwards SDK client logs to zerolog.
type SDKLogger struct {
	log zerolog.Logger
}

// NewSDKLogger creates an SDK logger writing to log.
func NewSDKLogger(log zerolog.Logger) *SDKLogger {
	return &SDKLogger{log: log.With().Str("component", "aws-sdk").Logger()}
}

// Logf implements logging.Logger.
func (l *SDKLogger) Logf(classification logging.Classification, format string, v ...interface{}) {
	event := l.log.Debug()
	if classification == logging.Warn {
		event = l.log.Warn()
	}
	event.Msg(fmt.Sprintf(format, v...))
}

var _ logging.Logger = (*SDKLogger)(nil)
