package s57

import (
	"github.com/Cellyceos/Standards/internal/enc"
	"github.com/dhconnelly/rtreego"
)

// convertChart maps an internal enc.Chart onto the public Chart type,
// resolving each feature's FSPT pointers into GeoJSON-style coordinates
// and building the R-tree spatial index.
func convertChart(internal *enc.Chart) *Chart {
	features := make([]Feature, 0, len(internal.Features))
	for _, f := range internal.Features {
		geometry := resolveGeometry(internal, f)
		attributes := make(map[string]interface{}, len(f.Attributes))
		for k, v := range f.Attributes {
			attributes[k] = v
		}

		if f.OBJL != 0 && enc.ObjectClassToString(f.OBJL) == "SOUNDG" {
			addSoundingDepths(geometry, attributes)
		}

		features = append(features, Feature{
			id:          f.RCID,
			objectClass: enc.ObjectClassToString(f.OBJL),
			geometry:    geometry,
			attributes:  attributes,
		})
	}

	chart := &Chart{
		features:    features,
		datasetName: internal.DatasetName,
		nall:        internal.NALL,
		aall:        internal.AALL,
		dstr:        internal.DSTR,
		comf:        internal.Params.COMF,
		somf:        internal.Params.SOMF,
		cscl:        internal.Params.CSCL,
	}
	chart.bounds = Bounds{
		MinLon: internal.Bounds.MinX, MaxLon: internal.Bounds.MaxX,
		MinLat: internal.Bounds.MinY, MaxLat: internal.Bounds.MaxY,
	}
	chart.buildSpatialIndex()

	return chart
}

// resolveGeometry walks a feature's FSPT pointers against the chart's
// node/edge tables to build the coordinate list a consumer can render.
// Orientation 2 (reverse) on an edge pointer reverses its vertex chain.
func resolveGeometry(chart *enc.Chart, f *enc.GeometryPrimitive) Geometry {
	switch f.PRIM {
	case enc.PrimPoint:
		var coords [][]float64
		for _, ptr := range f.FSPT {
			if node, ok := chart.ResolveNode(ptr.RCID); ok {
				coords = append(coords, pointCoord(node))
			}
		}
		return Geometry{Type: GeometryTypePoint, Coordinates: coords}

	case enc.PrimLine:
		return Geometry{Type: GeometryTypeLineString, Coordinates: walkSpatialChain(chart, f.FSPT)}

	case enc.PrimArea:
		return Geometry{Type: GeometryTypePolygon, Coordinates: walkSpatialChain(chart, f.FSPT)}

	default:
		return Geometry{}
	}
}

func walkSpatialChain(chart *enc.Chart, pointers []enc.SpatialRecordPointer) [][]float64 {
	var coords [][]float64
	for _, ptr := range pointers {
		switch enc.RecordName(ptr.RCNM) {
		case enc.RCNM_VE:
			edge, ok := chart.ResolveEdge(ptr.RCID)
			if !ok {
				continue
			}
			pts := edge.Points
			if ptr.Orientation == 2 {
				pts = reversed(pts)
			}
			for _, p := range pts {
				coords = append(coords, tupleOf(p))
			}
		case enc.RCNM_VC, enc.RCNM_VI:
			if node, ok := chart.ResolveNode(ptr.RCID); ok {
				coords = append(coords, pointCoord(node))
			}
		}
	}
	return coords
}

func reversed(pts []enc.Point3) []enc.Point3 {
	out := make([]enc.Point3, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

func pointCoord(p *enc.PointGeometry) []float64 {
	return tupleOf(p.Point)
}

func tupleOf(p enc.Point3) []float64 {
	if p.Z != 0 {
		return []float64{p.X, p.Y, p.Z}
	}
	return []float64{p.X, p.Y}
}

// addSoundingDepths lifts the Z component of every 3D coordinate into a
// synthetic DEPTHS attribute, matching how SOUNDG multipoint depth data
// is conventionally surfaced.
func addSoundingDepths(geom Geometry, attributes map[string]interface{}) {
	var depths []float64
	for _, coord := range geom.Coordinates {
		if len(coord) >= 3 {
			depths = append(depths, coord[2])
		}
	}
	if len(depths) > 0 {
		attributes["DEPTHS"] = depths
	}
}

// buildSpatialIndex indexes every feature into an R-tree (min 25, max 50
// children per node, matching the parameters that work well for chart
// feature counts in the low thousands).
func (c *Chart) buildSpatialIndex() {
	if len(c.features) == 0 {
		return
	}

	rtree := rtreego.NewTree(2, 25, 50)
	for _, f := range c.features {
		rtree.Insert(&indexedFeature{feature: f, bounds: featureBounds(f)})
	}
	c.spatialIndex = &spatialIndex{rtree: rtree}
}
