package iso8211

import (
	"io"
	"log"
	"os"
	"strings"
)

// Module owns the DDR schema and the byte stream of one ISO 8211 file. It
// opens a file, parses the leader, builds the FieldDef table, and yields
// DRs one at a time via ReadRecord.
type Module struct {
	path              string
	leader            leader
	fields            map[string]*FieldDef
	fieldOrder        []string
	data              []byte
	firstRecordOffset int
	pos               int
	scratch           *Record
}

// Open reads path whole, parses its DDR leader and field definitions, and
// leaves the read cursor positioned at the first DR.
func Open(path string) (*Module, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &OpenError{Path: path, Reason: err.Error()}
	}
	return openBytes(path, raw)
}

func openBytes(path string, raw []byte) (*Module, error) {
	if len(raw) < 24 {
		return nil, &OpenError{Path: path, Reason: "file shorter than a leader"}
	}
	ld, err := parseLeader(raw[:24])
	if err != nil {
		return nil, err
	}
	if err := ld.validate(); err != nil {
		return nil, err
	}
	if ld.RecordLength > len(raw) {
		return nil, &OpenError{Path: path, Reason: "DDR shorter than advertised record length"}
	}

	ddrBody := raw[24:ld.RecordLength]
	dirWidth := ld.directoryEntryWidth()

	m := &Module{
		path:              path,
		leader:            ld,
		fields:            make(map[string]*FieldDef),
		data:              raw,
		firstRecordOffset: ld.RecordLength,
		pos:               ld.RecordLength,
	}

	i := 0
	for i+dirWidth <= len(ddrBody) && ddrBody[i] != FT {
		entry := ddrBody[i : i+dirWidth]
		tag := strings.ToUpper(string(entry[0:ld.SizeFieldTag]))
		fieldLength := ScanInt(entry[ld.SizeFieldTag:ld.SizeFieldTag+ld.SizeFieldLength], ld.SizeFieldLength)
		fieldPosition := ScanInt(entry[ld.SizeFieldTag+ld.SizeFieldLength:], ld.SizeFieldPosition)

		fieldOffset := ld.FieldAreaStart + fieldPosition - 24
		if fieldOffset < 0 || ld.RecordLength-fieldOffset < fieldLength || fieldOffset+fieldLength > len(ddrBody) {
			return nil, &SchemaError{Tag: tag, Reason: "directory entry references bytes outside the DDR body"}
		}

		fieldData := ddrBody[fieldOffset : fieldOffset+fieldLength]
		fd, err := BuildFieldDef(tag, fieldData, ld.FieldControlLength)
		if err != nil {
			log.Printf("iso8211: skipping field %s: %v", tag, err)
			i += dirWidth
			continue
		}
		if _, exists := m.fields[fd.Tag]; exists {
			log.Printf("iso8211: duplicate field tag %s in DDR, keeping first definition", fd.Tag)
		} else {
			m.fields[fd.Tag] = fd
			m.fieldOrder = append(m.fieldOrder, fd.Tag)
		}
		i += dirWidth
	}

	return m, nil
}

// ReadRecord decodes the next DR. The returned Record is owned by the
// Module and is invalidated by the next call to ReadRecord.
func (m *Module) ReadRecord() (*Record, error) {
	if m.pos >= len(m.data) {
		return nil, io.EOF
	}
	rec, consumed, err := readRecord(m, m.data[m.pos:])
	if err != nil {
		return nil, err
	}
	m.pos += consumed
	m.scratch = rec
	return rec, nil
}

// Rewind resets the read cursor to the first DR.
func (m *Module) Rewind() {
	m.pos = m.firstRecordOffset
}

// FindFieldDefining performs a case-insensitive lookup of a field's schema
// by tag (tags are normalized to upper case at build time).
func (m *Module) FindFieldDefining(tag string) (*FieldDef, bool) {
	fd, ok := m.fields[strings.ToUpper(tag)]
	return fd, ok
}

// Close releases the Module's owned buffer and schema table.
func (m *Module) Close() {
	m.data = nil
	m.fields = nil
	m.fieldOrder = nil
	m.scratch = nil
}
