package iso8211

import (
	"encoding/binary"
	"log"
	"math"
	"strconv"
	"strings"
)

// Kind is the logical data kind a SubfieldDef decodes to.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindBinaryString
)

// BinaryEncoding selects the packed-binary interpretation for format 'b'.
type BinaryEncoding int

const (
	BinaryNone BinaryEncoding = iota
	BinaryUInt
	BinarySInt
	BinaryFPReal
	BinaryFloatReal
	BinaryFloatComplex
)

// SubfieldDef is one leaf of the schema built from the DDR: a format
// letter, a width (0 means variable), and the logical kind it decodes to.
// Immutable after schema build.
type SubfieldDef struct {
	Label        string
	FormatLetter byte
	Width        int
	Variable     bool
	Kind         Kind
	BinEnc       BinaryEncoding
	Nested       []*SubfieldDef
}

// ParseSubfieldDef builds a SubfieldDef from a single format atom such as
// "A(3)", "I(5)", "R", "B(40)", or "b12".
func ParseSubfieldDef(label, atom string) (*SubfieldDef, error) {
	atom = strings.TrimSpace(atom)
	if atom == "" {
		return nil, &SchemaError{Tag: label, Reason: "empty format atom"}
	}
	letter := atom[0]
	rest := atom[1:]

	sd := &SubfieldDef{Label: strings.ToUpper(label), FormatLetter: letter}

	switch letter {
	case 'A', 'I', 'R':
		width, hasWidth := parseWidthSuffix(rest)
		sd.Width = width
		sd.Variable = !hasWidth
		switch letter {
		case 'A':
			sd.Kind = KindString
		case 'I':
			sd.Kind = KindInt
		case 'R':
			sd.Kind = KindFloat
		}
	case 'S', 'C':
		// Treated like A for extraction purposes (string subtypes).
		width, hasWidth := parseWidthSuffix(rest)
		sd.Width = width
		sd.Variable = !hasWidth
		sd.Kind = KindString
	case 'B':
		bits, _ := parseWidthSuffix(rest)
		sd.Width = bits / 8
		sd.Variable = false
		sd.Kind = KindBinaryString
	case 'b':
		if len(rest) < 2 {
			return nil, &SchemaError{Tag: label, Reason: "malformed packed binary format " + atom}
		}
		code := rest[0] - '0'
		width, err := strconv.Atoi(rest[1:])
		if err != nil {
			return nil, &SchemaError{Tag: label, Reason: "malformed packed binary width " + atom}
		}
		sd.Width = width
		sd.Variable = false
		sd.BinEnc = BinaryEncoding(code)
		switch sd.BinEnc {
		case BinaryUInt, BinarySInt:
			sd.Kind = KindInt
		default:
			sd.Kind = KindFloat
		}
	default:
		log.Printf("iso8211: unsupported subfield format letter %q for %s, skipping", letter, label)
		return nil, &SchemaError{Tag: label, Reason: "unsupported format letter"}
	}

	return sd, nil
}

// parseWidthSuffix parses a trailing "(n)" suffix, returning the width and
// whether a width was actually present.
func parseWidthSuffix(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "(") {
		return 0, false
	}
	end := strings.IndexByte(s, ')')
	if end < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(s[1:end]))
	if err != nil {
		return 0, false
	}
	return n, true
}

// DataLength reports how many bytes this subfield occupies at the front of
// data and how many bytes should be consumed (including a trailing
// terminator for variable subfields). A variable subfield ends at the first
// UT or FT byte. The two-byte terminator form (UT or FT followed by 0x00,
// as used by two-byte text) is not recognised, and there is no check for
// two-byte text: such a value is cut at its first terminator byte.
func (s *SubfieldDef) DataLength(data []byte) (length, consumed int) {
	if !s.Variable {
		n := s.Width
		if n > len(data) {
			n = len(data)
		}
		return n, n
	}
	for i, b := range data {
		if b == UT || b == FT {
			return i, i + 1
		}
	}
	return len(data), len(data)
}

// AsString decodes the subfield as a string.
func (s *SubfieldDef) AsString(data []byte) (string, int) {
	length, consumed := s.DataLength(data)
	return string(data[:length]), consumed
}

// AsBinary decodes the subfield as raw bytes.
func (s *SubfieldDef) AsBinary(data []byte) ([]byte, int) {
	length, consumed := s.DataLength(data)
	out := make([]byte, length)
	copy(out, data[:length])
	return out, consumed
}

// AsLong decodes the subfield as an integer.
func (s *SubfieldDef) AsLong(data []byte) (int64, int) {
	switch s.FormatLetter {
	case 'A', 'I', 'R', 'S', 'C':
		str, consumed := s.AsString(data)
		str = strings.TrimSpace(str)
		if str == "" {
			return 0, consumed
		}
		v, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			log.Printf("iso8211: malformed integer subfield %s: %q", s.Label, str)
			return 0, consumed
		}
		return v, consumed
	case 'B':
		_, consumed := s.DataLength(data)
		return 0, consumed
	case 'b':
		w := s.Width
		if w > len(data) {
			log.Printf("iso8211: subfield %s wants %d bytes, only %d available", s.Label, w, len(data))
			return 0, len(data)
		}
		buf := data[:w]
		switch {
		case s.BinEnc == BinaryUInt && w == 1:
			return int64(buf[0]), w
		case s.BinEnc == BinaryUInt && w == 2:
			return int64(binary.LittleEndian.Uint16(buf)), w
		case s.BinEnc == BinaryUInt && w == 4:
			return int64(binary.LittleEndian.Uint32(buf)), w
		case s.BinEnc == BinarySInt && w == 1:
			return int64(int8(buf[0])), w
		case s.BinEnc == BinarySInt && w == 2:
			return int64(int16(binary.LittleEndian.Uint16(buf))), w
		case s.BinEnc == BinarySInt && w == 4:
			return int64(int32(binary.LittleEndian.Uint32(buf))), w
		case s.BinEnc == BinaryFloatReal && w == 4:
			bits := binary.LittleEndian.Uint32(buf)
			return int64(math.Float32frombits(bits)), w
		case s.BinEnc == BinaryFloatReal && w == 8:
			bits := binary.LittleEndian.Uint64(buf)
			return int64(math.Float64frombits(bits)), w
		default:
			return 0, w
		}
	default:
		return 0, 0
	}
}

// AsDouble decodes the subfield as a float64, widening integers.
func (s *SubfieldDef) AsDouble(data []byte) (float64, int) {
	switch s.FormatLetter {
	case 'A', 'I', 'R', 'S', 'C':
		str, consumed := s.AsString(data)
		str = strings.TrimSpace(str)
		if str == "" {
			return 0, consumed
		}
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			log.Printf("iso8211: malformed float subfield %s: %q", s.Label, str)
			return 0, consumed
		}
		return v, consumed
	case 'B':
		_, consumed := s.DataLength(data)
		return 0, consumed
	case 'b':
		w := s.Width
		if w > len(data) {
			log.Printf("iso8211: subfield %s wants %d bytes, only %d available", s.Label, w, len(data))
			return 0, len(data)
		}
		buf := data[:w]
		switch {
		case s.BinEnc == BinaryUInt && w == 1:
			return float64(buf[0]), w
		case s.BinEnc == BinaryUInt && w == 2:
			return float64(binary.LittleEndian.Uint16(buf)), w
		case s.BinEnc == BinaryUInt && w == 4:
			return float64(binary.LittleEndian.Uint32(buf)), w
		case s.BinEnc == BinarySInt && w == 1:
			return float64(int8(buf[0])), w
		case s.BinEnc == BinarySInt && w == 2:
			return float64(int16(binary.LittleEndian.Uint16(buf))), w
		case s.BinEnc == BinarySInt && w == 4:
			return float64(int32(binary.LittleEndian.Uint32(buf))), w
		case s.BinEnc == BinaryFloatReal && w == 4:
			bits := binary.LittleEndian.Uint32(buf)
			return float64(math.Float32frombits(bits)), w
		case s.BinEnc == BinaryFloatReal && w == 8:
			bits := binary.LittleEndian.Uint64(buf)
			return math.Float64frombits(bits), w
		default:
			return 0, w
		}
	default:
		return 0, 0
	}
}
