package enc

import "fmt"

// DomainError reports an S-57 violation: a file whose DDR has no DSID
// field, or a node, edge or feature that fails validation. Records with an
// out-of-range RCNM/PRIM, a point record without SG2D/SG3D, or an edge
// record without two VRPT occurrences are logged and skipped during Ingest,
// not reported as a DomainError.
type DomainError struct {
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("enc: %s", e.Reason)
}
