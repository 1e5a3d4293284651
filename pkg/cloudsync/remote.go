// Package cloudsync copies the backup document of all budgets to a remote
// object store and back. Sync requests are passed between the API and the
// sync worker over AMQP.
package cloudsync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

var ErrNoRemoteBackup = errors.New("there is no backup in the cloud yet")

// Remote stores a single backup document.
type Remote interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// GCSRemote stores the backup as one object in a Google Cloud Storage bucket.
type GCSRemote struct {
	client *storage.Client
	bucket string
	object string
}

// NewGCSRemote connects to Cloud Storage. Without a credentials file,
// Application Default Credentials are used.
func NewGCSRemote(ctx context.Context, bucket, object, credentialsFile string) (*GCSRemote, error) {
	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &GCSRemote{client: client, bucket: bucket, object: object}, nil
}

func (r *GCSRemote) Read(ctx context.Context) ([]byte, error) {
	reader, err := r.client.Bucket(r.bucket).Object(r.object).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNoRemoteBackup
	} else if err != nil {
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read GCS object: %w", err)
	}

	return data, nil
}

func (r *GCSRemote) Write(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := r.client.Bucket(r.bucket).Object(r.object).NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write GCS object: %w", err)
	}

	// Close finalizes the upload
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize upload: %w", err)
	}

	return nil
}

func (r *GCSRemote) Close() error {
	return r.client.Close()
}
