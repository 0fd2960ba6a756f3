package enc

import (
	"encoding/binary"
	"errors"
	"io"
	"log"

	"github.com/Cellyceos/Standards/internal/iso8211"
)

// ParseOptions controls ingest strictness.
type ParseOptions struct {
	SkipUnknownFeatures bool
	ValidateGeometry    bool
	ObjectClassFilter   []int
	ApplyUpdates        bool
	Applier             Applier
}

// DefaultParseOptions returns the same defaults as s57.DefaultParseOptions:
// unknown features kept, geometry validated, update discovery on (with no
// Applier set, NoopApplier is used and nothing is merged), no object class
// filter.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		SkipUnknownFeatures: false,
		ValidateGeometry:    true,
		ApplyUpdates:        true,
	}
}

// Reader drives one Module through Ingest, producing a Chart.
type Reader struct {
	path   string
	module *iso8211.Module
	chart  *Chart
	opts   ParseOptions
}

// Open creates the underlying Module and requires that its DDR define a
// DSID field before accepting the file as an S-57 cell.
func Open(path string, opts ParseOptions) (*Reader, error) {
	m, err := iso8211.Open(path)
	if err != nil {
		return nil, err
	}
	if _, ok := m.FindFieldDefining("DSID"); !ok {
		m.Close()
		return nil, &DomainError{Reason: "not an S-57 file: no DSID field in DDR"}
	}
	return &Reader{path: path, module: m, chart: NewChart(), opts: opts}, nil
}

// Close releases the Module and Chart.
func (r *Reader) Close() {
	if r.module != nil {
		r.module.Close()
	}
	if r.chart != nil {
		r.chart.Close()
	}
}

// Ingest loops ReadRecord until EOF, dispatching on each record's
// principal tag (field index 1), then runs update discovery.
func (r *Reader) Ingest() (*Chart, error) {
	for {
		rec, err := r.module.ReadRecord()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Printf("enc: skipping malformed record: %v", err)
			continue
		}

		principal, err := rec.Field(1)
		if err != nil {
			log.Printf("enc: record has no principal field, skipping")
			continue
		}

		switch principal.Def().Tag {
		case "DSID":
			r.readDSID(rec)
		case "DSPM":
			r.readDSPM(rec)
		case "VRID":
			r.readVector(rec, principal)
		case "FRID":
			r.readFeature(rec, principal)
		default:
			log.Printf("enc: info: skipping record with principal tag %s", principal.Def().Tag)
		}
	}

	if r.opts.ApplyUpdates {
		FindAndApplyUpdates(r.path, r.chart, r.opts.Applier)
	}

	return r.chart, nil
}

func (r *Reader) readDSID(rec *iso8211.Record) {
	dsid, ok := rec.FindField("DSID")
	if !ok {
		return
	}
	if dsnm, err := dsid.GetSubfieldAsString("DSNM"); err == nil {
		r.chart.DatasetName = dsnm
	}

	if dssi, err := rec.Field(2); err == nil && dssi.Def().Tag == "DSSI" {
		if nall, err := dssi.GetSubfieldAsLong("NALL"); err == nil {
			r.chart.NALL = int(nall)
		}
		if aall, err := dssi.GetSubfieldAsLong("AALL"); err == nil {
			r.chart.AALL = int(aall)
		}
		if dstr, err := dssi.GetSubfieldAsLong("DSTR"); err == nil {
			r.chart.DSTR = int(dstr)
		}
	}
}

func (r *Reader) readDSPM(rec *iso8211.Record) {
	dspm, ok := rec.FindField("DSPM")
	if !ok {
		return
	}
	comf, _ := dspm.GetSubfieldAsLong("COMF")
	somf, _ := dspm.GetSubfieldAsLong("SOMF")
	cscl, _ := dspm.GetSubfieldAsLong("CSCL")
	r.chart.Params.COMF = uint32(maxInt64(1, comf))
	r.chart.Params.SOMF = uint32(maxInt64(1, somf))
	r.chart.Params.CSCL = uint32(maxInt64(1, cscl))
}

func (r *Reader) readVector(rec *iso8211.Record, vrid *iso8211.Field) {
	rcnm, _ := vrid.GetSubfieldAsLong("RCNM")
	rcid, _ := vrid.GetSubfieldAsLong("RCID")
	rver, _ := vrid.GetSubfieldAsLong("RVER")
	ruin, _ := vrid.GetSubfieldAsLong("RUIN")

	if rcnm < int64(RCNM_VI) || rcnm > int64(RCNM_VF) {
		log.Printf("enc: rejecting vector record with out-of-range RCNM %d", rcnm)
		return
	}

	base := Feature{RCNM: RecordName(rcnm), RCID: uint32(rcid), RVER: int(rver), RUIN: UpdateInstruction(ruin)}

	switch RecordName(rcnm) {
	case RCNM_VI, RCNM_VC:
		point, ok := r.readPoint(rec)
		if !ok {
			log.Printf("enc: vector record %d missing SG2D/SG3D, rejecting", rcid)
			return
		}
		pg := &PointGeometry{Feature: base, Point: point}
		if r.opts.ValidateGeometry {
			if err := ValidatePointGeometry(pg); err != nil {
				log.Printf("enc: rejecting node %d: %v", rcid, err)
				return
			}
		}
		r.chart.Bounds.Extend(pg.Point.X, pg.Point.Y)
		if RecordName(rcnm) == RCNM_VI {
			r.chart.IsolatedNodes[pg.RCID] = pg
		} else {
			r.chart.ConnectedNodes[pg.RCID] = pg
		}

	case RCNM_VE:
		eg := &EdgeGeometry{Feature: base}
		if sg2d, ok := rec.FindField("SG2D"); ok {
			n := sg2d.RepeatCount()
			for i := 0; i < n; i++ {
				x, _ := sg2d.GetSubfieldAsLong("XCOO", i)
				y, _ := sg2d.GetSubfieldAsLong("YCOO", i)
				eg.Points = append(eg.Points, Point3{
					X: ConvertCoordinate(x, r.chart.Params.COMF),
					Y: ConvertCoordinate(y, r.chart.Params.COMF),
				})
				r.chart.Bounds.Extend(eg.Points[len(eg.Points)-1].X, eg.Points[len(eg.Points)-1].Y)
			}
		}
		vrpt, ok := rec.FindField("VRPT")
		if !ok || vrpt.RepeatCount() != 2 {
			log.Printf("enc: edge record %d missing/short VRPT (need exactly 2), rejecting", rcid)
			return
		}
		eg.Begin = decodeVectorPointer(vrpt, 0)
		eg.End = decodeVectorPointer(vrpt, 1)
		if r.opts.ValidateGeometry {
			if err := ValidateEdgeGeometry(eg); err != nil {
				log.Printf("enc: rejecting edge %d: %v", rcid, err)
				return
			}
		}
		r.chart.Edges[eg.RCID] = eg

	case RCNM_VF:
		log.Printf("enc: info: face record (VF) %d not implemented, skipping", rcid)
	}
}

func (r *Reader) readPoint(rec *iso8211.Record) (Point3, bool) {
	if sg2d, ok := rec.FindField("SG2D"); ok {
		x, _ := sg2d.GetSubfieldAsLong("XCOO")
		y, _ := sg2d.GetSubfieldAsLong("YCOO")
		return Point3{
			X: ConvertCoordinate(x, r.chart.Params.COMF),
			Y: ConvertCoordinate(y, r.chart.Params.COMF),
		}, true
	}
	if sg3d, ok := rec.FindField("SG3D"); ok {
		x, _ := sg3d.GetSubfieldAsLong("XCOO")
		y, _ := sg3d.GetSubfieldAsLong("YCOO")
		z, _ := sg3d.GetSubfieldAsLong("VE3D")
		return Point3{
			X: ConvertCoordinate(x, r.chart.Params.COMF),
			Y: ConvertCoordinate(y, r.chart.Params.COMF),
			Z: ConvertCoordinate(z, r.chart.Params.SOMF),
		}, true
	}
	return Point3{}, false
}

func (r *Reader) readFeature(rec *iso8211.Record, frid *iso8211.Field) {
	rcnm, _ := frid.GetSubfieldAsLong("RCNM")
	rcid, _ := frid.GetSubfieldAsLong("RCID")
	rver, _ := frid.GetSubfieldAsLong("RVER")
	ruin, _ := frid.GetSubfieldAsLong("RUIN")
	prim, _ := frid.GetSubfieldAsLong("PRIM")
	grup, _ := frid.GetSubfieldAsLong("GRUP")
	objl, _ := frid.GetSubfieldAsLong("OBJL")

	if prim > int64(PrimArea) && prim != int64(PrimNone) {
		log.Printf("enc: feature record %d has invalid PRIM %d, rejecting", rcid, prim)
		return
	}

	if r.opts.SkipUnknownFeatures && !IsKnownObjectClass(int(objl)) {
		return
	}
	if len(r.opts.ObjectClassFilter) > 0 && !containsInt(r.opts.ObjectClassFilter, int(objl)) {
		return
	}

	gp := &GeometryPrimitive{
		Primitive: Primitive{
			Feature: Feature{RCNM: RecordName(rcnm), RCID: uint32(rcid), RVER: int(rver), RUIN: UpdateInstruction(ruin)},
			OBJL:    int(objl),
			GRUP:    int(grup),
			PRIM:    GeometricPrimitive(prim),
		},
		Attributes: make(map[string]string),
	}

	if foid, ok := rec.FindField("FOID"); ok {
		agen, _ := foid.GetSubfieldAsLong("AGEN")
		fidn, _ := foid.GetSubfieldAsLong("FIDN")
		fids, _ := foid.GetSubfieldAsLong("FIDS")
		gp.AGEN, gp.FIDN, gp.FIDS = int(agen), int(fidn), int(fids)
	}

	if fspt, ok := rec.FindField("FSPT"); ok {
		n := fspt.RepeatCount()
		for i := 0; i < n; i++ {
			name, err := fspt.GetSubfieldAsBinary("NAME", i)
			if err != nil || len(name) < 5 {
				continue
			}
			ornt, _ := fspt.GetSubfieldAsLong("ORNT", i)
			usag, _ := fspt.GetSubfieldAsLong("USAG", i)
			mask, _ := fspt.GetSubfieldAsLong("MASK", i)
			gp.FSPT = append(gp.FSPT, SpatialRecordPointer{
				RCNM:        int(name[0]),
				RCID:        binary.LittleEndian.Uint32(name[1:5]),
				Orientation: int(ornt),
				Usage:       int(usag),
				Mask:        int(mask),
			})
		}
	}

	if attf, ok := rec.FindField("ATTF"); ok {
		// ATTF's ATVL is variable-width, so the field's FixedWidth is zero
		// and RepeatCount always reports 1 regardless of how many
		// attribute pairs it actually carries (see fieldview.go). Walk
		// occurrences until SubfieldBytes reports exhaustion instead.
		const maxAttributesPerFeature = 1000
		for i := 0; i < maxAttributesPerFeature; i++ {
			raw, err := attf.GetSubfieldAsBinary("ATTL", i)
			if err != nil || len(raw) == 0 {
				break
			}
			code, _ := attf.GetSubfieldAsLong("ATTL", i)
			val, _ := attf.GetSubfieldAsString("ATVL", i)
			gp.Attributes[AttributeCodeToString(int(code))] = val
		}
	}

	if r.opts.ValidateGeometry {
		if err := ValidateFeature(gp); err != nil {
			log.Printf("enc: rejecting feature %d: %v", gp.RCID, err)
			return
		}
	}

	r.chart.Features[gp.RCID] = gp
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func decodeVectorPointer(field *iso8211.Field, occurrence int) VectorRecordPointer {
	name, err := field.GetSubfieldAsBinary("NAME", occurrence)
	var rcnm byte
	var rcid uint32
	if err == nil && len(name) >= 5 {
		rcnm = name[0]
		rcid = binary.LittleEndian.Uint32(name[1:5])
	}
	ornt, _ := field.GetSubfieldAsLong("ORNT", occurrence)
	usag, _ := field.GetSubfieldAsLong("USAG", occurrence)
	mask, _ := field.GetSubfieldAsLong("MASK", occurrence)
	topi, _ := field.GetSubfieldAsLong("TOPI", occurrence)
	return VectorRecordPointer{
		RCNM:        int(rcnm),
		RCID:        rcid,
		Orientation: int(ornt),
		Usage:       int(usag),
		Mask:        int(mask),
		Topology:    int(topi),
	}
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
