package docintel

// ValueType enum for decoded field payloads
type ValueType string

const (
	TypeString        ValueType = "string"
	TypeNumber        ValueType = "number"
	TypeInteger       ValueType = "integer"
	TypeDate          ValueType = "date"
	TypeTime          ValueType = "time"
	TypePhoneNumber   ValueType = "phoneNumber"
	TypeSelectionMark ValueType = "selectionMark"
	TypeCountryRegion ValueType = "countryRegion"
	TypeArray         ValueType = "array"
	TypeObject        ValueType = "object"
)

// AnalysisField is one decoded field: a typed value plus the raw source text.
// Value is nil when the declared type had no payload or the type is unknown;
// Content is retained either way so extraction is never lossy.
type AnalysisField struct {
	Type       ValueType `json:"value_type"`
	Value      any       `json:"value,omitempty"`
	Confidence *float64  `json:"confidence,omitempty"`
	Content    string    `json:"content,omitempty"`
}

// RowValue is one cell of a decoded line-item row (array of objects).
type RowValue struct {
	Content string `json:"content,omitempty"`
	Value   any    `json:"value,omitempty"`
}

// ExtractedDocument is one recognized document instance from an analysis.
type ExtractedDocument struct {
	DocType    string                   `json:"doc_type,omitempty"`
	Confidence *float64                 `json:"confidence,omitempty"`
	Fields     map[string]AnalysisField `json:"fields"`
}

// Field returns the first field present among the given names.
func (d *ExtractedDocument) Field(names ...string) (AnalysisField, bool) {
	for _, name := range names {
		if f, ok := d.Fields[name]; ok {
			return f, true
		}
	}
	return AnalysisField{}, false
}

// HasField reports whether any of the named fields is present, value irrelevant.
func (d *ExtractedDocument) HasField(names ...string) bool {
	_, ok := d.Field(names...)
	return ok
}

// StringValue returns the decoded value when it is a string, falling back to
// the raw content.
func (f AnalysisField) StringValue() string {
	if s, ok := f.Value.(string); ok {
		return s
	}
	return f.Content
}
