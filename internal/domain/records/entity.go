package records

import (
	"time"

	"github.com/promptmenu/promptmenu-api/internal/domain/docintel"
)

// RecordID identifier type
type RecordID string

// ReceiptType enum
type ReceiptType string

const (
	TypeReceipt        ReceiptType = "receipt"
	TypeInvoice        ReceiptType = "invoice"
	TypeRestaurantBill ReceiptType = "restaurant_bill"
	TypeUnknown        ReceiptType = "unknown"
)

// BlobReference points at the stored upload: permanent name/URL plus the
// time-limited access URL handed to the analysis service.
type BlobReference struct {
	Name   string `json:"blob_name"`
	URL    string `json:"blob_url"`
	SASURL string `json:"sas_url,omitempty"`
}

// Aggregate root: ClassifiedRecord. Written once after extraction completes,
// never updated.
type ClassifiedRecord struct {
	ID           RecordID                     `json:"id"`
	TenantID     string                       `json:"tenant_id"`
	DocumentKey  string                       `json:"document_key"`
	Blob         BlobReference                `json:"blob"`
	UploadedAt   time.Time                    `json:"upload_timestamp"`
	ReceiptType  ReceiptType                  `json:"receipt_type"`
	UserInfo     map[string]string            `json:"user_info,omitempty"`
	Metadata     map[string]string            `json:"metadata,omitempty"`
	Merchant     any                          `json:"merchant,omitempty"`
	Total        any                          `json:"total,omitempty"`
	Date         any                          `json:"date,omitempty"`
	RawDocuments []docintel.ExtractedDocument `json:"raw_documents"`

	// menu-analysis extras
	DishName            string         `json:"dish_name,omitempty"`
	DietaryRestrictions []string       `json:"dietary_restrictions,omitempty"`
	HealthConditions    []string       `json:"health_conditions,omitempty"`
	Analysis            map[string]any `json:"analysis,omitempty"`
	Calories            any            `json:"calories,omitempty"`
	Nutrition           any            `json:"nutrition,omitempty"`
	DietaryInfo         any            `json:"dietary_info,omitempty"`
	HealthWarnings      any            `json:"health_warnings,omitempty"`
}
