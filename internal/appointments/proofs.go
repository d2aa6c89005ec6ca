package appointments

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ProofStore persists payment-proof files keyed by an opaque string and
// streams them back for administrative review.
type ProofStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// S3API is the subset of the S3 client the proof store needs.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3ProofStore stores proof files in an S3 bucket.
type S3ProofStore struct {
	bucket string
	client S3API
}

// NewS3ProofStore creates a store writing to the given bucket.
func NewS3ProofStore(client S3API, bucket string) *S3ProofStore {
	return &S3ProofStore{bucket: bucket, client: client}
}

// Put uploads the proof file under payment-proofs/<key>.
func (s *S3ProofStore) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("appointments: read proof: %w", err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("appointments: s3 put %s: %w", key, err)
	}
	return nil
}

// Get streams a stored proof file and its content type.
func (s *S3ProofStore) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return nil, "", fmt.Errorf("appointments: s3 get %s: %w", key, err)
	}
	contentType := "application/octet-stream"
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	return out.Body, contentType, nil
}

func (s *S3ProofStore) objectKey(key string) string {
	return "payment-proofs/" + key
}

// FileProofStore stores proof files on local disk. Used in development
// and tests; the content type rides along in a sidecar file.
type FileProofStore struct {
	dir string
}

// NewFileProofStore creates a store rooted at dir, creating it if needed.
func NewFileProofStore(dir string) (*FileProofStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("appointments: create proof dir: %w", err)
	}
	return &FileProofStore{dir: dir}, nil
}

// Put writes the proof file and its content-type sidecar.
func (s *FileProofStore) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("appointments: create proof file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, body); err != nil {
		return fmt.Errorf("appointments: write proof file: %w", err)
	}
	if err := os.WriteFile(path+".type", []byte(contentType), 0o644); err != nil {
		return fmt.Errorf("appointments: write proof type: %w", err)
	}
	return nil
}

// Get opens a stored proof file.
func (s *FileProofStore) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("appointments: open proof file: %w", err)
	}
	contentType := "application/octet-stream"
	if b, err := os.ReadFile(path + ".type"); err == nil && len(b) > 0 {
		contentType = string(b)
	}
	return f, contentType, nil
}

func (s *FileProofStore) path(key string) (string, error) {
	// Keys are server-generated UUIDs, but refuse anything path-like.
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("appointments: bad proof key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}
