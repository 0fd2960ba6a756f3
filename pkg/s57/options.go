package s57

// ParseOptions configures parsing behavior.
type ParseOptions struct {
	SkipUnknownFeatures bool
	ValidateGeometry    bool
	ObjectClassFilter   []string

	// ApplyUpdates controls whether to discover sequential update files
	// (.001, .002, ...) found next to a base cell. Discovered files are
	// handed to the internal no-op applier, which logs them; their records
	// are not merged into the chart. Default true.
	ApplyUpdates bool
}

// DefaultParseOptions returns the default parsing options: geometry is
// validated, unknown features are kept, updates are auto-discovered.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		SkipUnknownFeatures: false,
		ValidateGeometry:    true,
		ObjectClassFilter:   nil,
		ApplyUpdates:        true,
	}
}
