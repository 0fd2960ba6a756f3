package iso8211

import (
	"io"
	"log"
	"strings"
)

// Record owns the raw bytes of one DR and an ordered sequence of Field
// views over it.
type Record struct {
	module      *Module
	reuseHeader bool
	data        []byte
	fields      []*Field
}

// readRecord decodes one DR from the front of buf, returning the record
// and the number of bytes consumed.
func readRecord(m *Module, buf []byte) (*Record, int, error) {
	if len(buf) == 0 {
		return nil, 0, io.EOF
	}
	if len(buf) < 24 {
		return nil, 0, &RecordError{Reason: "short leader at end of file"}
	}
	ld, err := parseLeader(buf[:24])
	if err != nil {
		return nil, 0, err
	}
	reuseHeader := buf[6] == 'R'
	if err := ld.validateDR(); err != nil {
		return nil, 0, err
	}
	bodyLen := ld.RecordLength - 24
	if 24+bodyLen > len(buf) {
		return nil, 0, &RecordError{Reason: "record body truncated"}
	}

	body := make([]byte, bodyLen)
	copy(body, buf[24:24+bodyLen])

	rec := &Record{module: m, reuseHeader: reuseHeader, data: body}

	dirWidth := ld.directoryEntryWidth()
	i := 0
	for i+dirWidth <= len(body) && body[i] != FT {
		entry := body[i : i+dirWidth]
		tagBytes := append([]byte(nil), entry[0:ld.SizeFieldTag]...)
		Upper(tagBytes)
		tag := string(tagBytes)
		fieldLength := ScanInt(entry[ld.SizeFieldTag:ld.SizeFieldTag+ld.SizeFieldLength], ld.SizeFieldLength)
		fieldPosition := ScanInt(entry[ld.SizeFieldTag+ld.SizeFieldLength:], ld.SizeFieldPosition)

		fd, ok := m.FindFieldDefining(tag)
		if !ok {
			log.Printf("iso8211: record references unknown field tag %s", tag)
			return nil, 0, &RecordError{Reason: "unknown field tag " + tag}
		}

		fieldOffset := ld.FieldAreaStart + fieldPosition - 24
		if fieldOffset < 0 || ld.RecordLength-fieldOffset < fieldLength || fieldOffset+fieldLength > len(body) {
			return nil, 0, &RecordError{Reason: "directory entry references bytes outside the record"}
		}

		rec.fields = append(rec.fields, &Field{def: fd, data: body[fieldOffset : fieldOffset+fieldLength], offset: fieldOffset, length: fieldLength})
		i += dirWidth
	}

	return rec, ld.RecordLength, nil
}

// Field returns the idx'th field view. The correct bounds check is
// idx < 0 || idx >= len(fields); the original C++ source's off-by-one
// (idx > size) is a bug and is not reproduced (see SPEC_FULL.md Open
// Question 1).
func (r *Record) Field(idx int) (*Field, error) {
	if idx < 0 || idx >= len(r.fields) {
		return nil, ErrOutOfRange
	}
	return r.fields[idx], nil
}

// FindField performs a linear scan by tag.
func (r *Record) FindField(tag string) (*Field, bool) {
	tag = strings.ToUpper(tag)
	for _, f := range r.fields {
		if f.def.Tag == tag {
			return f, true
		}
	}
	return nil, false
}

// Fields returns the record's field views in physical order.
func (r *Record) Fields() []*Field {
	return r.fields
}

// ReuseHeader reports whether this record's leader signalled that the next
// physical record carries data only and must reuse the last directory.
func (r *Record) ReuseHeader() bool {
	return r.reuseHeader
}

// Clone deep-copies the record; the clone owns its own buffer and rebuilds
// Field views against that buffer at the same relative offsets.
func (r *Record) Clone() *Record {
	data := make([]byte, len(r.data))
	copy(data, r.data)
	clone := &Record{module: r.module, reuseHeader: r.reuseHeader, data: data}
	for _, f := range r.fields {
		clone.fields = append(clone.fields, &Field{
			def:    f.def,
			data:   data[f.offset : f.offset+f.length],
			offset: f.offset,
			length: f.length,
		})
	}
	return clone
}

// Clear releases fields and buffer and resets the reuse-header flag.
func (r *Record) Clear() {
	r.data = nil
	r.fields = nil
	r.reuseHeader = false
}
