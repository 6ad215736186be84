package records

import (
	"strings"

	"github.com/promptmenu/promptmenu-api/internal/domain/docintel"
)

// merchant names containing any of these mark a receipt as a restaurant bill
var restaurantKeywords = []string{"restaurant", "cafe", "bar", "grill"}

// Classify infers the coarse category of the first recognized document.
// Either the merchant keyword match or the presence of a Tip/ServiceCharge
// field is enough to upgrade a receipt to a restaurant bill.
func Classify(doc *docintel.ExtractedDocument) ReceiptType {
	if doc == nil || doc.DocType == "" {
		return TypeUnknown
	}
	switch baseDocType(doc.DocType) {
	case "receipt":
		if isRestaurantBill(doc) {
			return TypeRestaurantBill
		}
		return TypeReceipt
	case "invoice":
		return TypeInvoice
	}
	return TypeUnknown
}

// baseDocType strips the model variant suffix: "receipt.retailMeal" -> "receipt"
func baseDocType(docType string) string {
	if i := strings.IndexByte(docType, '.'); i >= 0 {
		return docType[:i]
	}
	return docType
}

func isRestaurantBill(doc *docintel.ExtractedDocument) bool {
	if f, ok := doc.Field("MerchantName"); ok {
		merchant := strings.ToLower(f.StringValue())
		for _, kw := range restaurantKeywords {
			if strings.Contains(merchant, kw) {
				return true
			}
		}
	}
	return doc.HasField("Tip") || doc.HasField("ServiceCharge")
}
