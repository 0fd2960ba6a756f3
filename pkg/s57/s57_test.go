package s57

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Cellyceos/Standards/internal/iso8211"
)

const (
	testSizeLen = 4
	testSizePos = 5
	testSizeTag = 4
	testFCL     = 9
)

type ddfFieldSpec struct {
	tag       string
	mnemonics string
	format    string
}

type ddfFieldValue struct {
	tag  string
	data []byte
}

func buildLeader(recordLength int, leaderID byte, fieldAreaStart int) []byte {
	b := make([]byte, 24)
	copy(b, fmt.Sprintf("%05d", recordLength))
	b[5] = '3'
	b[6] = leaderID
	b[7] = '1'
	b[8] = ' '
	b[9] = ' '
	if leaderID == 'L' {
		copy(b[10:12], fmt.Sprintf("%02d", testFCL))
	} else {
		// Real DR leaders leave field-control-length blank.
		copy(b[10:12], "  ")
	}
	copy(b[12:17], fmt.Sprintf("%05d", fieldAreaStart))
	copy(b[17:20], "   ")
	b[20] = byte('0' + testSizeLen)
	b[21] = byte('0' + testSizePos)
	b[22] = ' '
	b[23] = byte('0' + testSizeTag)
	return b
}

func buildDirectory(entries []ddfFieldValue, positions []int) []byte {
	var out []byte
	for i, e := range entries {
		tag := e.tag
		for len(tag) < testSizeTag {
			tag += " "
		}
		out = append(out, []byte(tag)...)
		out = append(out, []byte(fmt.Sprintf("%0*d", testSizeLen, len(e.data)))...)
		out = append(out, []byte(fmt.Sprintf("%0*d", testSizePos, positions[i]))...)
	}
	out = append(out, iso8211.FT)
	return out
}

func buildFieldArea(entries []ddfFieldValue) ([]byte, []int) {
	var area []byte
	positions := make([]int, len(entries))
	for i, e := range entries {
		positions[i] = len(area)
		area = append(area, e.data...)
	}
	return area, positions
}

func ddrFieldData(tag string, spec ddfFieldSpec) []byte {
	structureByte := byte(' ')
	if spec.mnemonics != "" {
		structureByte = '1'
	}
	control := []byte{structureByte, '0', ' ', ' ', ' ', ' ', ' ', ' ', ' '}
	var out []byte
	out = append(out, control...)
	out = append(out, []byte(tag+" FIELD")...)
	out = append(out, iso8211.UT)
	out = append(out, []byte(spec.mnemonics)...)
	out = append(out, iso8211.UT)
	out = append(out, []byte(spec.format)...)
	out = append(out, iso8211.FT)
	return out
}

func buildDDF(t *testing.T, dir, name string, specs []ddfFieldSpec, records [][]ddfFieldValue) string {
	t.Helper()

	var ddrEntries []ddfFieldValue
	for _, spec := range specs {
		ddrEntries = append(ddrEntries, ddfFieldValue{tag: spec.tag, data: ddrFieldData(spec.tag, spec)})
	}
	ddrArea, ddrPositions := buildFieldArea(ddrEntries)
	ddrDir := buildDirectory(ddrEntries, ddrPositions)
	ddrFieldAreaStart := 24 + len(ddrDir)
	ddrRecordLength := ddrFieldAreaStart + len(ddrArea)
	ddrLeader := buildLeader(ddrRecordLength, 'L', ddrFieldAreaStart)

	var file []byte
	file = append(file, ddrLeader...)
	file = append(file, ddrDir...)
	file = append(file, ddrArea...)

	for _, rec := range records {
		area, positions := buildFieldArea(rec)
		drDir := buildDirectory(rec, positions)
		drFieldAreaStart := 24 + len(drDir)
		drRecordLength := drFieldAreaStart + len(area)
		drLeader := buildLeader(drRecordLength, 'D', drFieldAreaStart)
		file = append(file, drLeader...)
		file = append(file, drDir...)
		file = append(file, area...)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, file, 0o644); err != nil {
		t.Fatalf("write test DDF: %v", err)
	}
	return path
}

func recordIDField(payload string) ddfFieldValue {
	return ddfFieldValue{tag: "0001", data: []byte(payload)}
}

func binaryName(rcnm byte, rcid uint32) []byte {
	b := make([]byte, 5)
	b[0] = rcnm
	b[1] = byte(rcid)
	b[2] = byte(rcid >> 8)
	b[3] = byte(rcid >> 16)
	b[4] = byte(rcid >> 24)
	return b
}

const (
	rcnmVI = 110
	rcnmVC = 120
	rcnmVE = 130
	rcnmFE = 100
)

func chartSpecs() []ddfFieldSpec {
	return []ddfFieldSpec{
		{tag: "0001"},
		{tag: "DSID", mnemonics: "DSNM", format: "(A)"},
		{tag: "DSSI", mnemonics: "NALL!AALL!DSTR", format: "(I(3),I(3),I(1))"},
		{tag: "DSPM", mnemonics: "COMF!SOMF!CSCL", format: "(I(8),I(7),I(7))"},
		{tag: "VRID", mnemonics: "RCNM!RCID!RVER!RUIN", format: "(I(3),I(10),I(5),I(1))"},
		{tag: "SG2D", mnemonics: "*XCOO!YCOO", format: "(I(10),I(10))"},
		{tag: "SG3D", mnemonics: "XCOO!YCOO!VE3D", format: "(I(10),I(10),I(10))"},
		{tag: "VRPT", mnemonics: "*NAME!ORNT!USAG!MASK!TOPI", format: "(B(40),I(1),I(1),I(1),I(1))"},
		{tag: "FRID", mnemonics: "RCNM!RCID!PRIM!GRUP!OBJL!RVER!RUIN", format: "(I(3),I(10),I(1),I(3),I(5),I(3),I(1))"},
		{tag: "FOID", mnemonics: "AGEN!FIDN!FIDS", format: "(I(5),I(10),I(5))"},
		{tag: "FSPT", mnemonics: "*NAME!ORNT!USAG!MASK", format: "(B(40),I(1),I(1),I(1))"},
		{tag: "ATTF", mnemonics: "*ATTL!ATVL", format: "(I(5),A)"},
	}
}

func i1(v int) []byte  { return []byte(fmt.Sprintf("%01d", v)) }
func i3(v int) []byte  { return []byte(fmt.Sprintf("%03d", v)) }
func i5(v int) []byte  { return []byte(fmt.Sprintf("%05d", v)) }
func i7(v int) []byte  { return []byte(fmt.Sprintf("%07d", v)) }
func i8(v int) []byte  { return []byte(fmt.Sprintf("%08d", v)) }
func i10(v int) []byte { return []byte(fmt.Sprintf("%010d", v)) }

// buildTestChart assembles a full base cell: dataset metadata, an isolated
// node with a 3D sounding position, a connected node, an edge between
// them, and two features (a SOUNDG point and a DEPCNT line).
func buildTestChart(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	frid := func(rcnm, rcid, prim, grup, objl, rver, ruin int) []byte {
		out := append(i3(rcnm), i10(rcid)...)
		out = append(out, i1(prim)...)
		out = append(out, i3(grup)...)
		out = append(out, i5(objl)...)
		out = append(out, i3(rver)...)
		out = append(out, i1(ruin)...)
		return out
	}
	vrid := func(rcnm, rcid, rver, ruin int) []byte {
		out := append(i3(rcnm), i10(rcid)...)
		out = append(out, i5(rver)...)
		out = append(out, i1(ruin)...)
		return out
	}
	vrptOcc := func(rcnm byte, rcid uint32, ornt, usag, mask, topi int) []byte {
		out := append(binaryName(rcnm, rcid), i1(ornt)...)
		out = append(out, i1(usag)...)
		out = append(out, i1(mask)...)
		out = append(out, i1(topi)...)
		return out
	}
	fsptOcc := func(rcnm byte, rcid uint32, ornt, usag, mask int) []byte {
		out := append(binaryName(rcnm, rcid), i1(ornt)...)
		out = append(out, i1(usag)...)
		out = append(out, i1(mask)...)
		return out
	}

	records := [][]ddfFieldValue{
		{
			recordIDField("0001"),
			{tag: "DSID", data: []byte("US5TEST0")},
			{tag: "DSSI", data: append(append(i3(2), i3(1)...), i1(2)...)},
		},
		{
			recordIDField("0001"),
			{tag: "DSPM", data: append(append(i8(10000000), i7(10)...), i7(50000)...)},
		},
		{
			recordIDField("0001"),
			{tag: "VRID", data: vrid(rcnmVI, 1, 1, 0)},
			{tag: "SG3D", data: append(append(i10(-710000000), i10(420000000)...), i10(100)...)},
		},
		{
			recordIDField("0001"),
			{tag: "VRID", data: vrid(rcnmVC, 3, 1, 0)},
			{tag: "SG2D", data: append(i10(-715000000), i10(425000000)...)},
		},
		{
			recordIDField("0001"),
			{tag: "VRID", data: vrid(rcnmVE, 2, 1, 0)},
			{tag: "SG2D", data: append(append(i10(-710000000), i10(420000000)...), append(i10(-715000000), i10(425000000)...)...)},
			{tag: "VRPT", data: append(vrptOcc(rcnmVI, 1, 1, 1, 0, 0), vrptOcc(rcnmVC, 3, 2, 1, 0, 0)...)},
		},
		{
			recordIDField("0001"),
			{tag: "FRID", data: frid(rcnmFE, 10, 1, 0, 129, 1, 0)},
			{tag: "FOID", data: append(append(i5(550), i10(1)...), i5(0)...)},
			{tag: "FSPT", data: fsptOcc(rcnmVI, 1, 1, 1, 0)},
			{tag: "ATTF", data: append(append(append(i5(66), []byte("TEST BUOY")...), iso8211.UT), append(i5(75), []byte("6")...)...)},
		},
		{
			recordIDField("0001"),
			{tag: "FRID", data: frid(rcnmFE, 11, 2, 0, 43, 1, 0)},
			{tag: "FOID", data: append(append(i5(550), i10(2)...), i5(0)...)},
			{tag: "FSPT", data: fsptOcc(rcnmVE, 2, 1, 1, 0)},
		},
	}

	return buildDDF(t, dir, "chart.000", chartSpecs(), records)
}

func TestParseWithOptionsMetadata(t *testing.T) {
	path := buildTestChart(t)

	opts := DefaultParseOptions()
	opts.ApplyUpdates = false
	chart, err := NewParser().ParseWithOptions(path, opts)
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}

	if chart.DatasetName() != "US5TEST0" {
		t.Errorf("DatasetName = %q, want US5TEST0", chart.DatasetName())
	}
	if chart.NodeCount() != 2 || chart.AttributeCount() != 1 || chart.CoordinateResolution() != 2 {
		t.Errorf("DSSI metadata = %d/%d/%d, want 2/1/2", chart.NodeCount(), chart.AttributeCount(), chart.CoordinateResolution())
	}
	if chart.CoordinateMultiplicationFactor() != 10000000 || chart.SoundingMultiplicationFactor() != 10 || chart.CompilationScale() != 50000 {
		t.Errorf("DSPM = %d/%d/%d", chart.CoordinateMultiplicationFactor(), chart.SoundingMultiplicationFactor(), chart.CompilationScale())
	}
	if chart.FeatureCount() != 2 {
		t.Fatalf("FeatureCount = %d, want 2", chart.FeatureCount())
	}
}

func TestParseResolvesPointGeometryAndDepths(t *testing.T) {
	path := buildTestChart(t)
	chart, err := NewParser().Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var sounding *Feature
	for i := range chart.Features() {
		f := &chart.features[i]
		if f.ObjectClass() == "SOUNDG" {
			sounding = f
		}
	}
	if sounding == nil {
		t.Fatal("SOUNDG feature not found")
	}

	geom := sounding.Geometry()
	if geom.Type != GeometryTypePoint {
		t.Errorf("geometry type = %v, want Point", geom.Type)
	}
	if len(geom.Coordinates) != 1 || len(geom.Coordinates[0]) != 3 {
		t.Fatalf("coordinates = %+v, want one 3-tuple", geom.Coordinates)
	}
	if geom.Coordinates[0][2] != 10.0 {
		t.Errorf("depth = %v, want 10.0", geom.Coordinates[0][2])
	}

	depths, ok := sounding.Attribute("DEPTHS")
	if !ok {
		t.Fatal("DEPTHS attribute not synthesized")
	}
	list, ok := depths.([]float64)
	if !ok || len(list) != 1 || list[0] != 10.0 {
		t.Errorf("DEPTHS = %+v", depths)
	}

	if name, _ := sounding.Attribute("OBJNAM"); name != "TEST BUOY" {
		t.Errorf("OBJNAM = %+v, want TEST BUOY", name)
	}
	if quasou, _ := sounding.Attribute("QUASOU"); quasou != "6" {
		t.Errorf("second ATTF occurrence not decoded: QUASOU = %+v, want 6", quasou)
	}
}

func TestParseResolvesLineGeometry(t *testing.T) {
	path := buildTestChart(t)
	chart, err := NewParser().Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var line *Feature
	for i := range chart.Features() {
		f := &chart.features[i]
		if f.ObjectClass() == "DEPCNT" {
			line = f
		}
	}
	if line == nil {
		t.Fatal("DEPCNT feature not found")
	}

	geom := line.Geometry()
	if geom.Type != GeometryTypeLineString {
		t.Errorf("geometry type = %v, want LineString", geom.Type)
	}
	if len(geom.Coordinates) != 2 {
		t.Fatalf("coordinates = %+v, want 2 vertices", geom.Coordinates)
	}
	if geom.Coordinates[0][0] != -71.0 || geom.Coordinates[0][1] != 42.0 {
		t.Errorf("first vertex = %+v, want (-71, 42)", geom.Coordinates[0])
	}
}

func TestFeaturesInBounds(t *testing.T) {
	path := buildTestChart(t)
	chart, err := NewParser().Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	near := Bounds{MinLon: -71.2, MaxLon: -70.8, MinLat: 41.8, MaxLat: 42.2}
	found := chart.FeaturesInBounds(near)
	if len(found) == 0 {
		t.Error("expected at least the SOUNDG feature within bounds")
	}

	far := Bounds{MinLon: 10, MaxLon: 11, MinLat: 10, MaxLat: 11}
	if got := chart.FeaturesInBounds(far); len(got) != 0 {
		t.Errorf("far query returned %d features, want 0", len(got))
	}
}

func TestBoundsPredicates(t *testing.T) {
	b := Bounds{MinLon: -10, MaxLon: 10, MinLat: -5, MaxLat: 5}
	if !b.Contains(0, 0) {
		t.Error("Contains(0,0) should be true")
	}
	if b.Contains(20, 0) {
		t.Error("Contains(20,0) should be false")
	}

	other := Bounds{MinLon: 5, MaxLon: 15, MinLat: -1, MaxLat: 1}
	if !b.Intersects(other) {
		t.Error("overlapping boxes should intersect")
	}
	disjoint := Bounds{MinLon: 100, MaxLon: 110, MinLat: 0, MaxLat: 1}
	if b.Intersects(disjoint) {
		t.Error("disjoint boxes should not intersect")
	}

	expanded := b.Expand(1)
	if expanded.MinLon != -11 || expanded.MaxLon != 11 {
		t.Errorf("Expand = %+v", expanded)
	}
}

func TestObjectClassCodesFor(t *testing.T) {
	codes := objectClassCodesFor([]string{"SOUNDG", "DEPCNT"})
	if len(codes) != 2 {
		t.Fatalf("codes = %v, want 2 entries", codes)
	}
	want := map[int]bool{129: true, 43: true}
	for _, c := range codes {
		if !want[c] {
			t.Errorf("unexpected code %d", c)
		}
	}
}
