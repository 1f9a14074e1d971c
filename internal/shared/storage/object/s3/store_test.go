package s3

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "user/file.pdf", want: "user/file.pdf"},
		{name: "simple prefix", prefix: "root", key: "user/file.pdf", want: "root/user/file.pdf"},
		{name: "prefix trailing slash", prefix: "root/", key: "user/file.pdf", want: "root/user/file.pdf"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/user/file.pdf", want: "root/user/file.pdf"},
		{name: "nested prefix", prefix: "root/sub", key: "user/file.pdf", want: "root/sub/user/file.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestPresignGetIncludesDisposition(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	store, err := New(context.Background(), "us-east-1", "exports-bucket", "blobs", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	url, err := store.PresignGet(context.Background(), "abc.pdf", "jane-cv.pdf", time.Minute)
	if err != nil {
		t.Fatalf("PresignGet: %v", err)
	}
	if !strings.Contains(url, "exports-bucket") || !strings.Contains(url, "blobs/abc.pdf") {
		t.Fatalf("unexpected presigned url %q", url)
	}
	if !strings.Contains(url, "response-content-disposition") {
		t.Fatalf("expected content disposition in presigned url %q", url)
	}
	if !strings.Contains(url, "X-Amz-Expires=60") {
		t.Fatalf("expected 60s expiry in presigned url %q", url)
	}
}

func TestPresignGetUsesCustomEndpoint(t *testing.T) {
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	store, err := New(context.Background(), "us-east-1", "exports-bucket", "", "",
		WithEndpoint("http://localhost:9000"),
		WithStaticCredentials("minio", "minio-secret"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	url, err := store.PresignGet(context.Background(), "abc.png", "", time.Minute)
	if err != nil {
		t.Fatalf("PresignGet: %v", err)
	}
	if !strings.HasPrefix(url, "http://localhost:9000/exports-bucket/abc.png") {
		t.Fatalf("expected path-style url on custom endpoint, got %q", url)
	}
	if !strings.Contains(url, "X-Amz-Credential=minio") {
		t.Fatalf("expected static access key in presigned url %q", url)
	}
}

func TestContentDispositionStripsQuotes(t *testing.T) {
	got := contentDisposition("a\"b\n.pdf")
	if got != `attachment; filename="ab.pdf"` {
		t.Fatalf("unexpected disposition %q", got)
	}
}
