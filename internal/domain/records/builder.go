package records

import (
	"fmt"
	"time"

	"github.com/promptmenu/promptmenu-api/internal/domain/docintel"
)

const keyTimestampLayout = "20060102150405"

// Build assembles the record to persist. Promotion of merchant/total/date is
// additive: the full document sequence is always retained under RawDocuments.
func Build(blob BlobReference, userInfo, metadata map[string]string, docs []docintel.ExtractedDocument, now time.Time) *ClassifiedRecord {
	receiptType := TypeReceipt
	if len(docs) > 0 {
		receiptType = Classify(&docs[0])
	}

	rec := &ClassifiedRecord{
		DocumentKey:  DocumentKey(string(receiptType), Username(userInfo), now),
		Blob:         blob,
		UploadedAt:   now.UTC(),
		ReceiptType:  receiptType,
		UserInfo:     userInfo,
		Metadata:     metadata,
		RawDocuments: docs,
	}

	if len(docs) > 0 {
		first := &docs[0]
		rec.Merchant = promoted(first, "MerchantName", "VendorName")
		rec.Total = promoted(first, "Total", "InvoiceTotal")
		rec.Date = promoted(first, "TransactionDate", "InvoiceDate")
	}
	return rec
}

// Username resolves the display identity used in document keys, first match
// wins: displayName, fullName, owner, then the literal "unknown".
func Username(userInfo map[string]string) string {
	for _, k := range []string{"displayName", "fullName", "owner"} {
		if v := userInfo[k]; v != "" {
			return v
		}
	}
	return "unknown"
}

// DocumentKey builds "{prefix}_{normalize(username)}_{YYYYMMDDHHMMSS}".
func DocumentKey(prefix, username string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s", prefix, Normalize(username), now.UTC().Format(keyTimestampLayout))
}

// promoted returns the decoded value of the first field present among names,
// falling back to its raw content, or nil so the record key is skipped.
func promoted(doc *docintel.ExtractedDocument, names ...string) any {
	f, ok := doc.Field(names...)
	if !ok {
		return nil
	}
	if f.Value != nil {
		return f.Value
	}
	if f.Content != "" {
		return f.Content
	}
	return nil
}
