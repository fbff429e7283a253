package store

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"docreview/internal/config"
)

const (
	metaName  = "X-Amz-Meta-Name"
	metaOwner = "X-Amz-Meta-Owner"
)

// minioStore implements ContentStore on an S3-compatible backend. Objects
// are keyed by the hex SHA-256 of their content, so uploads are idempotent
// and the key doubles as the content id. Safe for concurrent use.
type minioStore struct {
	client   *minio.Client
	bucket   string
	gateway  string
	maxBytes int64
	allowed  []string
}

// NewMinIO creates a content store client backed by MinIO. It validates
// connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(cfg config.StoreConfig) (ContentStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("store endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("store credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("store bucket is required")
	}
	if cfg.GatewayBaseURL == "" {
		return nil, fmt.Errorf("store gateway base URL is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ms := &minioStore{
		client:   cli,
		bucket:   cfg.Bucket,
		gateway:  strings.TrimRight(cfg.GatewayBaseURL, "/"),
		maxBytes: cfg.MaxUploadBytes,
		allowed:  cfg.AllowedTypes,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return ms, nil
}

// Upload hashes the blob to derive its key, then stores it. The blob is
// buffered in memory while hashing; MaxUploadBytes bounds that buffer.
// An object that already exists under the derived key is not re-uploaded.
func (m *minioStore) Upload(ctx context.Context, r io.Reader, opt UploadOptions) (ObjectRef, error) {
	if err := m.validate(opt); err != nil {
		return ObjectRef{}, err
	}

	var buf bytes.Buffer
	h := sha256.New()
	limit := io.Reader(r)
	if m.maxBytes > 0 {
		limit = io.LimitReader(r, m.maxBytes+1)
	}
	n, err := io.Copy(io.MultiWriter(&buf, h), limit)
	if err != nil {
		return ObjectRef{}, fmt.Errorf("%w: read blob: %v", ErrStoreUnavailable, err)
	}
	if m.maxBytes > 0 && n > m.maxBytes {
		return ObjectRef{}, fmt.Errorf("%w: blob exceeds %d bytes", ErrUploadRejected, m.maxBytes)
	}

	contentID := hex.EncodeToString(h.Sum(nil))
	ref := ObjectRef{ContentID: contentID, LocationRef: m.Location(contentID)}

	// Content addressing makes re-upload of identical bytes a no-op.
	if _, err := m.client.StatObject(ctx, m.bucket, contentID, minio.StatObjectOptions{}); err == nil {
		return ref, nil
	}

	_, err = m.client.PutObject(ctx, m.bucket, contentID, &buf, n, minio.PutObjectOptions{
		ContentType: opt.ContentType,
		UserMetadata: map[string]string{
			"Name":  opt.Name,
			"Owner": opt.UploadedBy,
		},
	})
	if err != nil {
		return ObjectRef{}, fmt.Errorf("%w: put object: %v", ErrStoreUnavailable, err)
	}
	return ref, nil
}

// List walks the bucket and maps each object to a StoredObject.
func (m *minioStore) List(ctx context.Context) ([]StoredObject, error) {
	items := make([]StoredObject, 0)
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		WithMetadata: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("%w: list objects: %v", ErrStoreUnavailable, obj.Err)
		}
		items = append(items, StoredObject{
			ContentID:   obj.Key,
			Name:        obj.UserMetadata[metaName],
			ContentType: obj.ContentType,
			Size:        obj.Size,
			Owner:       obj.UserMetadata[metaOwner],
			StoredAt:    obj.LastModified,
		})
	}
	return items, nil
}

// Location derives the public gateway URL for a content id.
func (m *minioStore) Location(contentID string) string {
	return m.gateway + "/" + contentID
}

func (m *minioStore) validate(opt UploadOptions) error {
	if m.maxBytes > 0 && opt.Size > m.maxBytes {
		return fmt.Errorf("%w: blob exceeds %d bytes", ErrUploadRejected, m.maxBytes)
	}
	if len(m.allowed) > 0 && !slices.Contains(m.allowed, opt.ContentType) {
		return fmt.Errorf("%w: content type %q not allowed", ErrUploadRejected, opt.ContentType)
	}
	return nil
}
