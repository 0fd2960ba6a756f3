// Package s57 provides a public API for reading IHO S-57 Electronic
// Navigational Chart cells built on top of the internal ISO 8211 reader
// and ENC domain layer.
package s57

import (
	"github.com/Cellyceos/Standards/internal/enc"
	"github.com/dhconnelly/rtreego"
)

// Parser reads S-57 cell files.
//
// Create one with NewParser and call Parse or ParseWithOptions.
type Parser interface {
	// Parse reads an S-57 base cell (.000) and returns its Chart, using
	// DefaultParseOptions. Sibling update files are discovered but not
	// merged (see ParseOptions.ApplyUpdates).
	Parse(filename string) (*Chart, error)

	// ParseWithOptions parses filename with explicit options.
	ParseWithOptions(filename string, opts ParseOptions) (*Chart, error)
}

// NewParser returns a Parser with default settings.
func NewParser() Parser {
	return &parserWrapper{}
}

type parserWrapper struct{}

func (p *parserWrapper) Parse(filename string) (*Chart, error) {
	return p.ParseWithOptions(filename, DefaultParseOptions())
}

func (p *parserWrapper) ParseWithOptions(filename string, opts ParseOptions) (*Chart, error) {
	internalOpts := enc.ParseOptions{
		SkipUnknownFeatures: opts.SkipUnknownFeatures,
		ValidateGeometry:    opts.ValidateGeometry,
		ApplyUpdates:        opts.ApplyUpdates,
	}
	if opts.ObjectClassFilter != nil {
		internalOpts.ObjectClassFilter = objectClassCodesFor(opts.ObjectClassFilter)
	}

	reader, err := enc.Open(filename, internalOpts)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	chart, err := reader.Ingest()
	if err != nil {
		return nil, err
	}
	return convertChart(chart), nil
}

// Chart is a parsed S-57 cell: metadata plus a queryable feature set.
//
// All fields are private; access them through the accessor methods.
type Chart struct {
	features     []Feature
	spatialIndex *spatialIndex
	bounds       Bounds

	datasetName string
	nall        int
	aall        int
	dstr        int
	comf        uint32
	somf        uint32
	cscl        uint32
}

// spatialIndex answers viewport queries in O(log n) via an R-tree.
type spatialIndex struct {
	rtree *rtreego.Rtree
}

// indexedFeature adapts a Feature to rtreego.Spatial.
type indexedFeature struct {
	feature Feature
	bounds  Bounds
}

func (f *indexedFeature) Bounds() rtreego.Rect {
	point := rtreego.Point{f.bounds.MinLon, f.bounds.MinLat}

	lonLength := f.bounds.MaxLon - f.bounds.MinLon
	latLength := f.bounds.MaxLat - f.bounds.MinLat

	// Point features have zero area; give them a small non-zero footprint
	// since rtreego rejects degenerate rectangles.
	const epsilon = 0.0001
	if lonLength < epsilon {
		lonLength = epsilon
	}
	if latLength < epsilon {
		latLength = epsilon
	}

	rect, _ := rtreego.NewRect(point, []float64{lonLength, latLength})
	return rect
}

// Features returns every feature in the chart.
func (c *Chart) Features() []Feature { return c.features }

// FeatureCount returns the number of features in the chart.
func (c *Chart) FeatureCount() int { return len(c.features) }

// Bounds returns the chart's overall geographic extent.
func (c *Chart) Bounds() Bounds { return c.bounds }

// FeaturesInBounds returns every feature whose bounding box intersects
// bounds, using the R-tree index when one was built.
func (c *Chart) FeaturesInBounds(bounds Bounds) []Feature {
	if c.spatialIndex == nil || c.spatialIndex.rtree == nil {
		return c.featuresInBoundsLinear(bounds)
	}

	point := rtreego.Point{bounds.MinLon, bounds.MinLat}
	lengths := []float64{bounds.MaxLon - bounds.MinLon, bounds.MaxLat - bounds.MinLat}
	queryRect, err := rtreego.NewRect(point, lengths)
	if err != nil {
		return c.featuresInBoundsLinear(bounds)
	}

	spatials := c.spatialIndex.rtree.SearchIntersect(queryRect)
	result := make([]Feature, 0, len(spatials))
	for _, sp := range spatials {
		result = append(result, sp.(*indexedFeature).feature)
	}
	return result
}

func (c *Chart) featuresInBoundsLinear(bounds Bounds) []Feature {
	result := make([]Feature, 0, len(c.features)/10)
	for _, f := range c.features {
		if bounds.Intersects(featureBounds(f)) {
			result = append(result, f)
		}
	}
	return result
}

// DatasetName returns the cell identifier (DSID/DSNM).
func (c *Chart) DatasetName() string { return c.datasetName }

// AttributeCount returns DSSI/AALL: the number of attributes in the cell.
func (c *Chart) AttributeCount() int { return c.aall }

// NodeCount returns DSSI/NALL: the number of nodes in the cell.
func (c *Chart) NodeCount() int { return c.nall }

// CoordinateResolution returns DSSI/DSTR: the coordinate resolution code.
func (c *Chart) CoordinateResolution() int { return c.dstr }

// CoordinateMultiplicationFactor returns DSPM/COMF.
func (c *Chart) CoordinateMultiplicationFactor() uint32 { return c.comf }

// SoundingMultiplicationFactor returns DSPM/SOMF.
func (c *Chart) SoundingMultiplicationFactor() uint32 { return c.somf }

// CompilationScale returns DSPM/CSCL.
func (c *Chart) CompilationScale() uint32 { return c.cscl }

// Feature is a navigational object decoded from an FRID record.
type Feature struct {
	id          uint32
	objectClass string
	geometry    Geometry
	attributes  map[string]interface{}
}

// ID returns the feature's record identifier (RCID).
func (f *Feature) ID() uint32 { return f.id }

// ObjectClass returns the S-57 object class mnemonic, e.g. "DEPARE".
func (f *Feature) ObjectClass() string { return f.objectClass }

// Geometry returns the feature's resolved spatial representation.
func (f *Feature) Geometry() Geometry { return f.geometry }

// Attributes returns every decoded attribute, keyed by mnemonic.
func (f *Feature) Attributes() map[string]interface{} { return f.attributes }

// Attribute returns one attribute value by mnemonic.
func (f *Feature) Attribute(name string) (interface{}, bool) {
	v, ok := f.attributes[name]
	return v, ok
}

// Geometry is a feature's resolved spatial representation.
//
// Coordinates follow the GeoJSON convention: [longitude, latitude] pairs,
// or [longitude, latitude, depth] for soundings.
type Geometry struct {
	Type        GeometryType
	Coordinates [][]float64
}

// GeometryType classifies a Geometry.
type GeometryType int

const (
	GeometryTypePoint GeometryType = iota
	GeometryTypeLineString
	GeometryTypePolygon
)

func (g GeometryType) String() string {
	switch g {
	case GeometryTypePoint:
		return "Point"
	case GeometryTypeLineString:
		return "LineString"
	case GeometryTypePolygon:
		return "Polygon"
	default:
		return "Unknown"
	}
}

func objectClassCodesFor(mnemonics []string) []int {
	wanted := make(map[string]bool, len(mnemonics))
	for _, m := range mnemonics {
		wanted[m] = true
	}
	var codes []int
	for code, name := range enc.ObjectClassNames() {
		if wanted[name] {
			codes = append(codes, code)
		}
	}
	return codes
}
