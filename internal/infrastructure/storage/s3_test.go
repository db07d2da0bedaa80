package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeUploader struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeUploader) Upload(ctx context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &manager.UploadOutput{Key: in.Key}, nil
}

func newTestArchive(up *fakeUploader) *S3Archive {
	return &S3Archive{bucket: "invoices-bucket", uploader: up, newID: func() string { return "fixed-id" }}
}

func TestS3Archive_Put(t *testing.T) {
	up := &fakeUploader{}
	a := newTestArchive(up)

	key, err := a.Put(context.Background(), "user-1", "INV-0001.pdf", []byte("%PDF-1.3"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if key != "invoices/user-1/fixed-id-INV-0001.pdf" {
		t.Errorf("key = %q", key)
	}
	if aws.ToString(up.input.Bucket) != "invoices-bucket" {
		t.Errorf("bucket = %q", aws.ToString(up.input.Bucket))
	}
	if aws.ToString(up.input.ContentType) != "application/pdf" {
		t.Errorf("content type = %q", aws.ToString(up.input.ContentType))
	}
	if string(up.body) != "%PDF-1.3" {
		t.Errorf("body = %q", up.body)
	}
}

func TestS3Archive_SanitizesKey(t *testing.T) {
	a := newTestArchive(&fakeUploader{})
	key := a.objectKey("../owner", "../../etc/in voice?.pdf")
	if key != "invoices/.._owner/fixed-id-in_voice_.pdf" {
		t.Errorf("key = %q", key)
	}
}

func TestS3Archive_UploadError(t *testing.T) {
	a := newTestArchive(&fakeUploader{err: errors.New("access denied")})
	if _, err := a.Put(context.Background(), "u", "a.pdf", nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewS3Archive_RequiresBucket(t *testing.T) {
	if _, err := NewS3Archive(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for missing bucket")
	}
}
