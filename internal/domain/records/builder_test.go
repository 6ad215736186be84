package records

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptmenu/promptmenu-api/internal/domain/docintel"
)

var buildTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func TestDocumentKey(t *testing.T) {
	got := DocumentKey("receipt", "Jane Doe", buildTime)
	assert.Equal(t, "receipt_jane_doe_20240102030405", got)
}

func TestDocumentKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	local := time.Date(2024, 1, 2, 10, 4, 5, 0, loc)
	assert.Equal(t, "receipt_jane_doe_20240102030405", DocumentKey("receipt", "Jane Doe", local))
}

func TestUsername(t *testing.T) {
	tests := []struct {
		name     string
		userInfo map[string]string
		want     string
	}{
		{"displayName wins", map[string]string{"displayName": "Jane Doe", "fullName": "J. D.", "owner": "jd"}, "Jane Doe"},
		{"fullName second", map[string]string{"fullName": "J. D.", "owner": "jd"}, "J. D."},
		{"owner third", map[string]string{"owner": "jd", "email": "jd@example.com"}, "jd"},
		{"fallback", map[string]string{"email": "jd@example.com"}, "unknown"},
		{"empty values skipped", map[string]string{"displayName": "", "owner": "jd"}, "jd"},
		{"nil map", nil, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Username(tt.userInfo))
		})
	}
}

func TestBuild(t *testing.T) {
	blob := BlobReference{Name: "receipt_20240102030405.jpg", URL: "http://store/docs/receipt_20240102030405.jpg"}
	docs := []docintel.ExtractedDocument{{
		DocType: "receipt",
		Fields: map[string]docintel.AnalysisField{
			"MerchantName":    stringField("Corner Market"),
			"Total":           {Type: docintel.TypeNumber, Value: 12.34, Content: "$12.34"},
			"TransactionDate": {Type: docintel.TypeDate, Value: "2024-01-02", Content: "Jan 2, 2024"},
		},
	}}

	rec := Build(blob, map[string]string{"displayName": "Jane Doe"}, map[string]string{"source": "app"}, docs, buildTime)

	require.NotNil(t, rec)
	assert.Equal(t, "receipt_jane_doe_20240102030405", rec.DocumentKey)
	assert.Equal(t, TypeReceipt, rec.ReceiptType)
	assert.Equal(t, blob, rec.Blob)
	assert.Equal(t, buildTime, rec.UploadedAt)
	assert.Equal(t, "Corner Market", rec.Merchant)
	assert.Equal(t, 12.34, rec.Total)
	assert.Equal(t, "2024-01-02", rec.Date)
	assert.Equal(t, docs, rec.RawDocuments)
	assert.Equal(t, map[string]string{"source": "app"}, rec.Metadata)
}

func TestBuildPrefersTotalOverInvoiceTotal(t *testing.T) {
	docs := []docintel.ExtractedDocument{{
		DocType: "invoice",
		Fields: map[string]docintel.AnalysisField{
			"Total":        {Type: docintel.TypeNumber, Value: 10.0},
			"InvoiceTotal": {Type: docintel.TypeNumber, Value: 99.0},
		},
	}}
	rec := Build(BlobReference{}, nil, nil, docs, buildTime)
	assert.Equal(t, 10.0, rec.Total)
}

func TestBuildInvoiceFallbacks(t *testing.T) {
	docs := []docintel.ExtractedDocument{{
		DocType: "invoice",
		Fields: map[string]docintel.AnalysisField{
			"VendorName":   stringField("Acme Supplies"),
			"InvoiceTotal": {Type: docintel.TypeNumber, Value: 250.0},
			"InvoiceDate":  {Type: docintel.TypeDate, Value: "2024-01-01"},
		},
	}}
	rec := Build(BlobReference{}, nil, nil, docs, buildTime)
	assert.Equal(t, TypeInvoice, rec.ReceiptType)
	assert.Equal(t, "invoice_unknown_20240102030405", rec.DocumentKey)
	assert.Equal(t, "Acme Supplies", rec.Merchant)
	assert.Equal(t, 250.0, rec.Total)
	assert.Equal(t, "2024-01-01", rec.Date)
}

func TestBuildPromotionFallsBackToContent(t *testing.T) {
	docs := []docintel.ExtractedDocument{{
		DocType: "receipt",
		Fields: map[string]docintel.AnalysisField{
			"Total": {Type: docintel.TypeNumber, Content: "$5.00"},
		},
	}}
	rec := Build(BlobReference{}, nil, nil, docs, buildTime)
	assert.Equal(t, "$5.00", rec.Total)
}

func TestBuildNoDocuments(t *testing.T) {
	rec := Build(BlobReference{}, map[string]string{"owner": "sam"}, nil, nil, buildTime)
	assert.Equal(t, TypeReceipt, rec.ReceiptType)
	assert.Equal(t, "receipt_sam_20240102030405", rec.DocumentKey)
	assert.Nil(t, rec.Merchant)
	assert.Nil(t, rec.Total)
	assert.Nil(t, rec.Date)
}
