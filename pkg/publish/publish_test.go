package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/df07/go-sphere-raytracer/pkg/config"
)

type fakeS3 struct {
	s3iface.S3API
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("expected upload deadline")
	}
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, input)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.messages = append(l.messages, fmt.Sprintf(format, args...))
}

func testConfig() config.S3Config {
	return config.S3Config{Bucket: "renders-bucket", Prefix: "renders", ACL: "public-read"}
}

func TestUploader_Upload(t *testing.T) {
	client := &fakeS3{}
	logger := &recordingLogger{}
	uploader := NewUploaderWithClient(client, testConfig(), logger)

	data := []byte("P3\n1 1\n255\n0 0 0\n")
	key := uploader.Key("sky", "output/sky/render.ppm")
	if key != "renders/sky/render.ppm" {
		t.Errorf("Unexpected key %q", key)
	}

	if err := uploader.Upload(context.Background(), key, data, "image/x-portable-pixmap"); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if len(client.inputs) != 1 {
		t.Fatalf("Expected one upload, got %d", len(client.inputs))
	}
	input := client.inputs[0]
	if aws.StringValue(input.Bucket) != "renders-bucket" || aws.StringValue(input.Key) != key {
		t.Errorf("Unexpected destination %s/%s", aws.StringValue(input.Bucket), aws.StringValue(input.Key))
	}
	if aws.Int64Value(input.ContentLength) != int64(len(data)) {
		t.Errorf("Expected content length %d, got %d", len(data), aws.Int64Value(input.ContentLength))
	}
	if aws.StringValue(input.ContentType) != "image/x-portable-pixmap" || aws.StringValue(input.ACL) != "public-read" {
		t.Errorf("Unexpected headers %s %s", aws.StringValue(input.ContentType), aws.StringValue(input.ACL))
	}
	if string(client.bodies[0]) != string(data) {
		t.Errorf("Uploaded body mismatch: %q", client.bodies[0])
	}
	if len(logger.messages) != 1 {
		t.Errorf("Expected one log message, got %v", logger.messages)
	}
}

func TestUploader_NoACL(t *testing.T) {
	client := &fakeS3{}
	cfg := testConfig()
	cfg.ACL = ""
	uploader := NewUploaderWithClient(client, cfg, nil)

	if err := uploader.Upload(context.Background(), "k", []byte("x"), "image/png"); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if client.inputs[0].ACL != nil {
		t.Errorf("Expected no ACL, got %s", aws.StringValue(client.inputs[0].ACL))
	}
}

func TestUploader_Error(t *testing.T) {
	sentinel := errors.New("access denied")
	uploader := NewUploaderWithClient(&fakeS3{err: sentinel}, testConfig(), nil)

	err := uploader.Upload(context.Background(), "renders/x.png", []byte("x"), "image/png")
	if !errors.Is(err, sentinel) {
		t.Errorf("Expected wrapped client error, got %v", err)
	}
}

func TestNewUploader_RequiresBucket(t *testing.T) {
	if _, err := NewUploader(config.S3Config{Region: "us-east-1"}, nil); err == nil {
		t.Error("Expected error without bucket")
	}
}

func TestNewUploader_StaticCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.Region = "us-east-1"
	cfg.Endpoint = "http://localhost:9000"
	cfg.AccessKey = "key"
	cfg.SecretKey = "secret"

	uploader, err := NewUploader(cfg, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if uploader.Key("spheres", "render.png") != "renders/spheres/render.png" {
		t.Errorf("Unexpected key %q", uploader.Key("spheres", "render.png"))
	}
}
