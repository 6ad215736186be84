package records

import (
	"context"
	"time"
)

// Repository port (interface for persistence). Records are insert-only.
type Repository interface {
	Save(ctx context.Context, r *ClassifiedRecord) error
	Get(ctx context.Context, tenant string, id RecordID) (*ClassifiedRecord, error)
	Latest(ctx context.Context, tenant string, limit int) ([]*ClassifiedRecord, error)
	Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*ClassifiedRecord, error)
}

// BlobStore port (interface for the upload store)
type BlobStore interface {
	Upload(ctx context.Context, blobName string, data []byte, metadata map[string]string) (string, error)
	PresignedURL(ctx context.Context, blobName string, ttl time.Duration) (string, error)
}
