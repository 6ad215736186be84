package docintel

// Extract walks the raw analyze result and produces one ExtractedDocument per
// recognized document. Decoding is total: unknown types and missing payloads
// leave Value nil with Content retained, they never abort the document.
func Extract(res *AnalyzeResult) []ExtractedDocument {
	if res == nil {
		return nil
	}
	out := make([]ExtractedDocument, 0, len(res.Documents))
	for _, raw := range res.Documents {
		doc := ExtractedDocument{
			DocType:    raw.DocType,
			Confidence: raw.Confidence,
			Fields:     make(map[string]AnalysisField, len(raw.Fields)),
		}
		for name, rf := range raw.Fields {
			doc.Fields[name] = decodeField(rf)
		}
		out = append(out, doc)
	}
	return out
}

func decodeField(rf RawField) AnalysisField {
	f := AnalysisField{
		Type:       ValueType(rf.Type),
		Confidence: rf.Confidence,
		Content:    rf.Content,
	}
	switch f.Type {
	case TypeArray:
		if rows := decodeRows(rf.ValueArray); len(rows) > 0 {
			f.Value = rows
		}
	default:
		f.Value = scalarValue(rf)
	}
	return f
}

// decodeRows handles line-item tables: array elements that are object-typed
// become ordered row mappings of inner field name -> {content, value}.
func decodeRows(elems []RawField) []map[string]RowValue {
	var rows []map[string]RowValue
	for _, elem := range elems {
		if ValueType(elem.Type) != TypeObject || elem.ValueObject == nil {
			continue
		}
		row := make(map[string]RowValue, len(elem.ValueObject))
		for name, inner := range elem.ValueObject {
			row[name] = RowValue{Content: inner.Content, Value: scalarValue(inner)}
		}
		rows = append(rows, row)
	}
	return rows
}

// scalarValue dispatches on the declared type and returns the decoded payload,
// or nil when the expected attribute is absent or the type is not scalar.
func scalarValue(rf RawField) any {
	switch ValueType(rf.Type) {
	case TypeString:
		return deref(rf.ValueString)
	case TypeNumber:
		if rf.ValueNumber != nil {
			return *rf.ValueNumber
		}
	case TypeInteger:
		if rf.ValueInteger != nil {
			return *rf.ValueInteger
		}
	case TypeDate:
		// already an ISO-8601 date string on the wire
		return deref(rf.ValueDate)
	case TypeTime:
		return deref(rf.ValueTime)
	case TypePhoneNumber:
		return deref(rf.ValuePhoneNumber)
	case TypeSelectionMark:
		return deref(rf.ValueSelectionMark)
	case TypeCountryRegion:
		return deref(rf.ValueCountryRegion)
	}
	return nil
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// Summary flattens key/value pairs, tables and page info for the document
// analysis response payload.
type Summary struct {
	KeyValuePairs map[string]string `json:"key_value_pairs"`
	Tables        []TableSummary    `json:"tables"`
	Pages         int               `json:"pages"`
	Languages     []string          `json:"languages"`
}

type TableSummary struct {
	RowCount    int            `json:"row_count"`
	ColumnCount int            `json:"column_count"`
	Cells       []RawTableCell `json:"cells"`
}

func Summarize(res *AnalyzeResult) Summary {
	s := Summary{KeyValuePairs: map[string]string{}}
	if res == nil {
		return s
	}
	for _, kv := range res.KeyValuePairs {
		if kv.Key != nil && kv.Value != nil {
			s.KeyValuePairs[kv.Key.Content] = kv.Value.Content
		}
	}
	for _, t := range res.Tables {
		s.Tables = append(s.Tables, TableSummary{
			RowCount:    t.RowCount,
			ColumnCount: t.ColumnCount,
			Cells:       t.Cells,
		})
	}
	s.Pages = len(res.Pages)
	for _, l := range res.Languages {
		s.Languages = append(s.Languages, l.Locale)
	}
	return s
}
