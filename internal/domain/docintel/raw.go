package docintel

// Wire types for the document-intelligence analyze result. Decoded once at the
// service boundary; everything downstream works on ExtractedDocument.

type AnalyzeResult struct {
	APIVersion    string         `json:"apiVersion,omitempty"`
	ModelID       string         `json:"modelId,omitempty"`
	Content       string         `json:"content,omitempty"`
	Pages         []RawPage      `json:"pages,omitempty"`
	Tables        []RawTable     `json:"tables,omitempty"`
	KeyValuePairs []RawKeyValue  `json:"keyValuePairs,omitempty"`
	Languages     []RawLanguage  `json:"languages,omitempty"`
	Documents     []RawDocument  `json:"documents,omitempty"`
}

type RawDocument struct {
	DocType    string              `json:"docType,omitempty"`
	Confidence *float64            `json:"confidence,omitempty"`
	Fields     map[string]RawField `json:"fields,omitempty"`
}

// RawField mirrors the service's tagged-union field shape: Type names the one
// value* attribute expected to carry the payload.
type RawField struct {
	Type               string              `json:"type"`
	ValueString        *string             `json:"valueString,omitempty"`
	ValueNumber        *float64            `json:"valueNumber,omitempty"`
	ValueInteger       *int64              `json:"valueInteger,omitempty"`
	ValueDate          *string             `json:"valueDate,omitempty"`
	ValueTime          *string             `json:"valueTime,omitempty"`
	ValuePhoneNumber   *string             `json:"valuePhoneNumber,omitempty"`
	ValueSelectionMark *string             `json:"valueSelectionMark,omitempty"`
	ValueCountryRegion *string             `json:"valueCountryRegion,omitempty"`
	ValueArray         []RawField          `json:"valueArray,omitempty"`
	ValueObject        map[string]RawField `json:"valueObject,omitempty"`
	Content            string              `json:"content,omitempty"`
	Confidence         *float64            `json:"confidence,omitempty"`
}

type RawKeyValue struct {
	Key   *RawContent `json:"key,omitempty"`
	Value *RawContent `json:"value,omitempty"`
}

type RawContent struct {
	Content string `json:"content"`
}

type RawTable struct {
	RowCount    int            `json:"rowCount"`
	ColumnCount int            `json:"columnCount"`
	Cells       []RawTableCell `json:"cells"`
}

type RawTableCell struct {
	RowIndex    int    `json:"rowIndex"`
	ColumnIndex int    `json:"columnIndex"`
	RowSpan     int    `json:"rowSpan,omitempty"`
	ColumnSpan  int    `json:"columnSpan,omitempty"`
	Content     string `json:"content"`
}

type RawPage struct {
	PageNumber int `json:"pageNumber"`
}

type RawLanguage struct {
	Locale     string  `json:"locale"`
	Confidence float64 `json:"confidence,omitempty"`
}
