package awscloud

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

const testRegion = "us-east-2"

// testS3Client creates a RealClient whose S3 client talks to a test HTTP server.
// The handler receives real S3 XML-protocol requests.
func testS3Client(t *testing.T, handler http.Handler) *RealClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := s3.New(s3.Options{
		Region:           testRegion,
		BaseEndpoint:     aws.String(server.URL),
		UsePathStyle:     true,
		Credentials:      credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		RetryMaxAttempts: 1,
	})

	return &RealClient{s3: client, region: testRegion, metrics: NewMetrics()}
}

// testSQSClient creates a RealClient whose SQS client talks to a test HTTP server.
// The handler receives AWS JSON 1.0 requests; the operation is in X-Amz-Target.
func testSQSClient(t *testing.T, handler http.Handler) *RealClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := sqs.New(sqs.Options{
		Region:           testRegion,
		BaseEndpoint:     aws.String(server.URL),
		Credentials:      credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		RetryMaxAttempts: 1,
	})

	return &RealClient{sqs: client, region: testRegion, metrics: NewMetrics()}
}

// xmlResponse writes an S3-style XML response.
func xmlResponse(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

// jsonResponse writes an AWS JSON 1.0 response.
func jsonResponse(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "application/x-amz-json-1.0")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

// sqsOperation returns the SQS operation name of a request.
func sqsOperation(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("X-Amz-Target"), "AmazonSQS.")
}

// decodeJSON decodes a JSON request body into a generic map.
func decodeJSON(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		t.Errorf("failed to decode request body: %v", err)
	}
	return m
}
