package enc

// Chart owns the four RCID-keyed entity maps produced by Ingest, plus the
// dataset's scalar parameters and running bounding box. Lifetime: created
// by Open, populated by Ingest, read by callers, released by Close.
type Chart struct {
	DatasetName string
	NALL        int
	AALL        int
	DSTR        int

	Params Params

	IsolatedNodes  map[uint32]*PointGeometry
	ConnectedNodes map[uint32]*PointGeometry
	Edges          map[uint32]*EdgeGeometry
	Features       map[uint32]*GeometryPrimitive

	Bounds BoundingBox
}

// NewChart returns an empty Chart with COMF/SOMF/CSCL defaulted to 1 (the
// spec requires them to be >= 1; they are only overwritten by a DSPM
// record actually observed during Ingest).
func NewChart() *Chart {
	return &Chart{
		Params:         Params{COMF: 1, SOMF: 1, CSCL: 1},
		IsolatedNodes:  make(map[uint32]*PointGeometry),
		ConnectedNodes: make(map[uint32]*PointGeometry),
		Edges:          make(map[uint32]*EdgeGeometry),
		Features:       make(map[uint32]*GeometryPrimitive),
	}
}

// Close releases the Chart's entity maps in one pass. There is no cyclic
// ownership: FSPT/VRPT store bare identifiers, not pointers, so dropping
// the maps drops everything.
func (c *Chart) Close() {
	c.IsolatedNodes = nil
	c.ConnectedNodes = nil
	c.Edges = nil
	c.Features = nil
}

// ResolveNode looks up an isolated or connected node by RCID, whichever
// map holds it. FSPT/VRPT references are identifiers, resolved lazily
// here rather than at ingest time (see SPEC_FULL.md §5 Ordering).
func (c *Chart) ResolveNode(rcid uint32) (*PointGeometry, bool) {
	if n, ok := c.IsolatedNodes[rcid]; ok {
		return n, true
	}
	n, ok := c.ConnectedNodes[rcid]
	return n, ok
}

// ResolveEdge looks up an edge by RCID.
func (c *Chart) ResolveEdge(rcid uint32) (*EdgeGeometry, bool) {
	e, ok := c.Edges[rcid]
	return e, ok
}

// ResolveFeature looks up a feature by RCID.
func (c *Chart) ResolveFeature(rcid uint32) (*GeometryPrimitive, bool) {
	f, ok := c.Features[rcid]
	return f, ok
}
