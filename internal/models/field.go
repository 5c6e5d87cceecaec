// Package models defines core data structures for records, field
// configuration, search results, and suggestions.
package models

// FieldType classifies the value a configured field is expected to hold.
type FieldType string

const (
	// FieldTypeText is free-form text (the default).
	FieldTypeText FieldType = "text"
	// FieldTypeEmail is an email address.
	FieldTypeEmail FieldType = "email"
	// FieldTypeNumber is a numeric value, matched against its string form.
	FieldTypeNumber FieldType = "number"
	// FieldTypeDate is a date value, matched against its string form.
	FieldTypeDate FieldType = "date"
)

// Record is the generic map-shaped record used by the CLI and HTTP surfaces.
// The engine itself accepts any record type; field values are resolved by
// dot-path through maps and exported struct fields.
type Record map[string]any

// FieldConfig describes one searchable attribute of a record. Key is a
// dot-path into the record (e.g. "contact.email"). Weight is a positive
// multiplier applied to every score contribution from this field.
type FieldConfig struct {
	Key           string    `json:"key" yaml:"key"`
	Weight        float64   `json:"weight,omitempty" yaml:"weight"`
	Searchable    *bool     `json:"searchable,omitempty" yaml:"searchable"`
	Highlightable *bool     `json:"highlightable,omitempty" yaml:"highlightable"`
	Type          FieldType `json:"type,omitempty" yaml:"type"`
}

// EffectiveWeight returns the field weight, normalizing non-positive or NaN
// values to 1 so scoring stays total.
func (f *FieldConfig) EffectiveWeight() float64 {
	if !(f.Weight > 0) {
		return 1
	}
	return f.Weight
}

// IsSearchable reports whether the field participates in scoring and
// suggestion generation; defaults to true when unset.
func (f *FieldConfig) IsSearchable() bool {
	if f.Searchable != nil {
		return *f.Searchable
	}
	return true
}

// IsHighlightable reports whether the field's matches may be rendered as
// highlights; defaults to true when unset.
func (f *FieldConfig) IsHighlightable() bool {
	if f.Highlightable != nil {
		return *f.Highlightable
	}
	return true
}

// EffectiveType returns the field type, defaulting to text.
func (f *FieldConfig) EffectiveType() FieldType {
	if f.Type == "" {
		return FieldTypeText
	}
	return f.Type
}
