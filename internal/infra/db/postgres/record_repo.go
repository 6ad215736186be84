package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	domain "github.com/promptmenu/promptmenu-api/internal/domain/records"
)

type RecordRepository struct {
	db *sql.DB
}

func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Save inserts a record; write-once, no conflict handling.
func (r *RecordRepository) Save(ctx context.Context, rec *domain.ClassifiedRecord) error {
	const q = `
INSERT INTO classified_records
  (id, tenant_id, document_key, blob_name, blob_url, uploaded_at,
   receipt_type, dish_name, merchant, total, txn_date, record_json)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12);
`
	tenant := stringOrDash(rec.TenantID)
	uploadedAt := rec.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, q,
		rec.ID, tenant, rec.DocumentKey, rec.Blob.Name, rec.Blob.URL, uploadedAt,
		string(rec.ReceiptType), rec.DishName,
		scalarString(rec.Merchant), scalarString(rec.Total), scalarString(rec.Date),
		jsonOrEmpty(rec),
	)
	return err
}

func (r *RecordRepository) Get(ctx context.Context, tenant string, id domain.RecordID) (*domain.ClassifiedRecord, error) {
	const q = `
SELECT record_json FROM classified_records
WHERE tenant_id=$1 AND id=$2 LIMIT 1;
`
	row := r.db.QueryRowContext(ctx, q, tenant, id)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		return nil, err
	}
	return decodeRecord(raw)
}

func (r *RecordRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.ClassifiedRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT record_json FROM classified_records
WHERE tenant_id=$1 ORDER BY uploaded_at DESC, id DESC LIMIT $2;
`
	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func (r *RecordRepository) Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*domain.ClassifiedRecord, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT record_json FROM classified_records
WHERE tenant_id=$1
ORDER BY uploaded_at DESC, id DESC
LIMIT $2 OFFSET $3;
`
	rows, err := r.db.QueryContext(ctx, q, tenant, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func decodeRecord(raw []byte) (*domain.ClassifiedRecord, error) {
	var rec domain.ClassifiedRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func collectRecords(rows *sql.Rows) ([]*domain.ClassifiedRecord, error) {
	var out []*domain.ClassifiedRecord
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
