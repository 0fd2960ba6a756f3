package iso8211

import "strings"

// Field is a non-owning view: a FieldDef reference plus a slice of the
// owning Record's bytes. It never outlives that Record.
type Field struct {
	def    *FieldDef
	data   []byte
	offset int
	length int
}

// Def returns the field's schema.
func (f *Field) Def() *FieldDef {
	return f.def
}

// Bytes returns the field's raw bytes.
func (f *Field) Bytes() []byte {
	return f.data
}

// RepeatCount reports how many occurrences of the subfield group this
// field carries: 1 for a non-repeating field, and data length divided by
// FixedWidth for a repeating fixed-width field. A repeating field with any
// variable-width subfield (FixedWidth 0) also reports 1, whatever number
// of occurrences it holds.
func (f *Field) RepeatCount() int {
	if !f.def.Repeating {
		return 1
	}
	if f.def.FixedWidth > 0 {
		return len(f.data) / f.def.FixedWidth
	}
	return 1
}

// SubfieldBytes locates the bytes for sub at the given occurrence and
// returns them through to the end of the field. For a
// fixed-width field it jumps directly; otherwise it walks subfields of
// each occurrence in order, matching sub by identity, per DDFField's
// GetBinaryData algorithm re-expressed with index/identity equality
// instead of pointer equality (see SPEC_FULL.md Design Notes).
func (f *Field) SubfieldBytes(sub *SubfieldDef, occurrence int) ([]byte, error) {
	if occurrence < 0 {
		return nil, ErrOutOfRange
	}

	if f.def.FixedWidth > 0 {
		start := occurrence * f.def.FixedWidth
		if start >= len(f.data) {
			return nil, ErrOutOfRange
		}
		rem := f.data[start:]
		offset := 0
		for _, s := range f.def.Subfields {
			if s == sub {
				break
			}
			offset += s.Width
		}
		if offset > len(rem) {
			return nil, ErrOutOfRange
		}
		return rem[offset:], nil
	}

	data := f.data
	pos := 0
	for occ := 0; occ <= occurrence; occ++ {
		if pos > len(data) {
			return nil, ErrOutOfRange
		}
		for _, s := range f.def.Subfields {
			if occ == occurrence && s == sub {
				return data[pos:], nil
			}
			_, consumed := s.DataLength(data[pos:])
			pos += consumed
		}
	}
	return nil, ErrOutOfRange
}

func (f *Field) findSubfield(name string) *SubfieldDef {
	name = strings.ToUpper(name)
	for _, s := range f.def.Subfields {
		if s.Label == name {
			return s
		}
	}
	return nil
}

// GetSubfieldAsLong looks up subfield name (default occurrence 0) and
// decodes it as an integer.
func (f *Field) GetSubfieldAsLong(name string, occurrence ...int) (int64, error) {
	occ := firstOrZero(occurrence)
	sub := f.findSubfield(name)
	if sub == nil {
		return 0, ErrUnknownSubfield
	}
	b, err := f.SubfieldBytes(sub, occ)
	if err != nil {
		return 0, err
	}
	if sub.FormatLetter == 'b' && len(b) < sub.Width {
		return 0, &DecodeError{Label: sub.Label, Reason: "insufficient bytes for packed binary width"}
	}
	v, _ := sub.AsLong(b)
	return v, nil
}

// GetSubfieldAsDouble looks up subfield name and decodes it as a float64.
func (f *Field) GetSubfieldAsDouble(name string, occurrence ...int) (float64, error) {
	occ := firstOrZero(occurrence)
	sub := f.findSubfield(name)
	if sub == nil {
		return 0, ErrUnknownSubfield
	}
	b, err := f.SubfieldBytes(sub, occ)
	if err != nil {
		return 0, err
	}
	if sub.FormatLetter == 'b' && len(b) < sub.Width {
		return 0, &DecodeError{Label: sub.Label, Reason: "insufficient bytes for packed binary width"}
	}
	v, _ := sub.AsDouble(b)
	return v, nil
}

// GetSubfieldAsString looks up subfield name and decodes it as a string.
func (f *Field) GetSubfieldAsString(name string, occurrence ...int) (string, error) {
	occ := firstOrZero(occurrence)
	sub := f.findSubfield(name)
	if sub == nil {
		return "", ErrUnknownSubfield
	}
	b, err := f.SubfieldBytes(sub, occ)
	if err != nil {
		return "", err
	}
	v, _ := sub.AsString(b)
	return v, nil
}

// GetSubfieldAsBinary looks up subfield name and returns its raw bytes.
func (f *Field) GetSubfieldAsBinary(name string, occurrence ...int) ([]byte, error) {
	occ := firstOrZero(occurrence)
	sub := f.findSubfield(name)
	if sub == nil {
		return nil, ErrUnknownSubfield
	}
	b, err := f.SubfieldBytes(sub, occ)
	if err != nil {
		return nil, err
	}
	v, _ := sub.AsBinary(b)
	return v, nil
}

func firstOrZero(occurrence []int) int {
	if len(occurrence) == 0 {
		return 0
	}
	return occurrence[0]
}
