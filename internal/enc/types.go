// Package enc materializes an in-memory model of an S-57 Electronic
// Navigational Chart cell on top of the ISO 8211 record stream: isolated
// nodes, connected nodes, edges, and feature primitives, indexed by
// record identifier, with a running bounding box.
package enc

// RecordName is the S-57 RCNM code identifying a record's role.
type RecordName int

const (
	RCNM_DS RecordName = 10
	RCNM_DP RecordName = 20
	RCNM_DH RecordName = 30
	RCNM_DA RecordName = 40
	RCNM_CR RecordName = 60
	RCNM_ID RecordName = 70
	RCNM_IO RecordName = 80
	RCNM_IS RecordName = 90
	RCNM_FE RecordName = 100
	RCNM_VI RecordName = 110
	RCNM_VC RecordName = 120
	RCNM_VE RecordName = 130
	RCNM_VF RecordName = 140
)

// UpdateInstruction is the S-57 RUIN code.
type UpdateInstruction int

const (
	RUIN_None   UpdateInstruction = 0
	RUIN_Insert UpdateInstruction = 1
	RUIN_Delete UpdateInstruction = 2
	RUIN_Modify UpdateInstruction = 3
)

// GeometricPrimitive is the S-57 PRIM code.
type GeometricPrimitive int

const (
	PrimPoint      GeometricPrimitive = 1
	PrimLine       GeometricPrimitive = 2
	PrimArea       GeometricPrimitive = 3
	PrimNone       GeometricPrimitive = 255
)

// Point3 is the minimal coordinate value this reader assumes; full
// vector/coordinate math is an external collaborator.
type Point3 struct {
	X, Y, Z float64
}

// VectorRecordPointer identifies another vector record referenced by a
// VRPT subfield group (an edge's begin/end node).
type VectorRecordPointer struct {
	RCNM        int
	RCID        uint32
	Orientation int
	Usage       int
	Mask        int
	Topology    int
}

// SpatialRecordPointer identifies a spatial record referenced by a
// feature's FSPT subfield group.
type SpatialRecordPointer struct {
	RCNM        int
	RCID        uint32
	Orientation int
	Usage       int
	Mask        int
}

// Feature is the abstract base every ENC entity carries.
type Feature struct {
	RCNM RecordName
	RCID uint32
	RVER int
	RUIN UpdateInstruction
}

// PointGeometry is an isolated or connected node (RCNM VI/VC).
type PointGeometry struct {
	Feature
	Point Point3
}

// EdgeGeometry is a vector edge (RCNM VE).
type EdgeGeometry struct {
	Feature
	Begin, End VectorRecordPointer
	Points     []Point3
}

// Primitive extends Feature with the feature-record identity fields
// carried by FRID/FOID.
type Primitive struct {
	Feature
	OBJL int
	GRUP int
	PRIM GeometricPrimitive
	AGEN int
	FIDN int
	FIDS int
}

// GeometryPrimitive is a full feature record: a Primitive plus its
// spatial pointers and decoded attributes.
type GeometryPrimitive struct {
	Primitive
	FSPT       []SpatialRecordPointer
	Attributes map[string]string
}

// BoundingBox tracks the chart's geographic extent lazily: it is
// meaningless until the first Extend call.
type BoundingBox struct {
	MinX, MinY, MaxX, MaxY float64
	Valid                  bool
}

// Extend widens the box to include (x, y).
func (b *BoundingBox) Extend(x, y float64) {
	if !b.Valid {
		b.MinX, b.MaxX = x, x
		b.MinY, b.MaxY = y, y
		b.Valid = true
		return
	}
	if x < b.MinX {
		b.MinX = x
	}
	if x > b.MaxX {
		b.MaxX = x
	}
	if y < b.MinY {
		b.MinY = y
	}
	if y > b.MaxY {
		b.MaxY = y
	}
}

// Params holds the DSPM scalars used to convert packed integer
// coordinates into geographic degrees. Stored as uint32 divisors per
// S-57 §3.2.1; division happens in floating point at point of use (see
// SPEC_FULL.md Open Question 3).
type Params struct {
	COMF uint32
	SOMF uint32
	CSCL uint32
}

// ConvertCoordinate divides a packed integer coordinate by factor.
func ConvertCoordinate(value int64, factor uint32) float64 {
	if factor == 0 {
		factor = 1
	}
	return float64(value) / float64(factor)
}
