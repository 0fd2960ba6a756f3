package enc

import "fmt"

// ValidateCoordinate checks a point against geographic bounds.
func ValidateCoordinate(x, y float64) error {
	if y < -90.0 || y > 90.0 {
		return &DomainError{Reason: fmt.Sprintf("latitude %f out of range", y)}
	}
	if x < -180.0 || x > 180.0 {
		return &DomainError{Reason: fmt.Sprintf("longitude %f out of range", x)}
	}
	return nil
}

// ValidatePointGeometry checks a node's coordinate.
func ValidatePointGeometry(p *PointGeometry) error {
	if p == nil {
		return &DomainError{Reason: "point geometry is nil"}
	}
	return ValidateCoordinate(p.Point.X, p.Point.Y)
}

// ValidateEdgeGeometry checks an edge's vertex chain. A degenerate edge
// (fewer than 2 points) is accepted: it will simply be skipped by any
// consumer that walks vertex pairs.
func ValidateEdgeGeometry(e *EdgeGeometry) error {
	if e == nil {
		return &DomainError{Reason: "edge geometry is nil"}
	}
	for i, pt := range e.Points {
		if err := ValidateCoordinate(pt.X, pt.Y); err != nil {
			return &DomainError{Reason: fmt.Sprintf("edge %d vertex %d: %v", e.RCID, i, err)}
		}
	}
	return nil
}

// ValidateFeature checks a feature record. PRIM=None (meta-features like
// C_AGGR, M_COVR) legitimately carry no spatial pointers.
func ValidateFeature(f *GeometryPrimitive) error {
	if f == nil {
		return &DomainError{Reason: "feature is nil"}
	}
	if f.PRIM != PrimNone && len(f.FSPT) == 0 {
		return &DomainError{Reason: fmt.Sprintf("feature %d: PRIM %d requires at least one FSPT pointer", f.RCID, f.PRIM)}
	}
	return nil
}
