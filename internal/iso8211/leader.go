package iso8211

// leader is the fixed 24-byte record leader shared by the DDR and every DR.
type leader struct {
	RecordLength        int
	InterchangeLevel    byte
	LeaderIdentifier    byte
	InlineCodeExt       byte
	VersionNumber       byte
	ApplicationInd      byte
	FieldControlLength  int
	FieldAreaStart      int
	ExtendedCharSet     string
	SizeFieldLength     int
	SizeFieldPosition   int
	SizeFieldTag        int
}

func parseLeader(buf []byte) (leader, error) {
	if len(buf) < 24 {
		return leader{}, &OpenError{Reason: "leader shorter than 24 bytes"}
	}
	l := leader{
		RecordLength:       ScanInt(buf[0:5], 5),
		InterchangeLevel:   buf[5],
		LeaderIdentifier:   buf[6],
		InlineCodeExt:      buf[7],
		VersionNumber:      buf[8],
		ApplicationInd:     buf[9],
		FieldControlLength: ScanInt(buf[10:12], 2),
		FieldAreaStart:     ScanInt(buf[12:17], 5),
		ExtendedCharSet:    string(buf[17:20]),
		SizeFieldLength:    ScanInt(buf[20:21], 1),
		SizeFieldPosition:  ScanInt(buf[21:22], 1),
		SizeFieldTag:       ScanInt(buf[23:24], 1),
	}
	return l, nil
}

func (l leader) directoryEntryWidth() int {
	return l.SizeFieldLength + l.SizeFieldPosition + l.SizeFieldTag
}

// validate checks a DDR leader. The DDR alone carries a meaningful
// field-control-length (it bounds the structure/type code prefix each
// FieldDef entry starts with); FieldControlLength is required positive
// here but not in validateDR.
func (l leader) validate() error {
	if l.RecordLength < 24 {
		return &OpenError{Reason: "record length below leader size"}
	}
	if l.FieldControlLength <= 0 {
		return &OpenError{Reason: "field control length must be positive"}
	}
	if l.FieldAreaStart < 24 {
		return &OpenError{Reason: "field area start before end of leader"}
	}
	if l.SizeFieldLength <= 0 || l.SizeFieldPosition <= 0 || l.SizeFieldTag <= 0 {
		return &OpenError{Reason: "directory entry size fields must be positive"}
	}
	return nil
}

// validateDR checks a DR leader. Real DR leaders leave the
// field-control-length bytes blank (ScanInt yields 0), so unlike
// validate this never checks FieldControlLength.
func (l leader) validateDR() error {
	if l.RecordLength < 24 {
		return &RecordError{Reason: "record length below leader size"}
	}
	if l.FieldAreaStart < 24 {
		return &RecordError{Reason: "field area start before end of leader"}
	}
	if l.SizeFieldLength <= 0 || l.SizeFieldPosition <= 0 || l.SizeFieldTag <= 0 {
		return &RecordError{Reason: "directory entry size fields must be positive"}
	}
	return nil
}
