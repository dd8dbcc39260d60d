// Package diag defines the diagnostic record type and sink interface that
// every other package in this module reports through. The sink itself is an
// external collaborator (e.g. a SCAD front-end's error reporter) and is only
// specified here as an interface.
package diag

// Severity controls whether a diagnostic aborts lowering, is reported but
// tolerated, or is dropped entirely.
type Severity int

const (
	// Ignore drops the diagnostic silently; lowering proceeds exactly as
	// it does for Warning, only without the report.
	Ignore Severity = iota
	// Warning reports the diagnostic but lowering proceeds.
	Warning
	// Fatal reports the diagnostic and lowering fails for the enclosing
	// subtree.
	Fatal
)

// Kind classifies the category of diagnostic, per the error taxonomy.
type Kind int

const (
	// Empty is a user-input degenerate-geometry error (zero scale, zero
	// radius, non-positive height, ...). Severity is configurable.
	Empty Kind = iota
	// Collapse is a user-input non-invertible-transform error
	// (multmatrix with a singular matrix). Severity is configurable.
	Collapse
	// OutsideContext is a 2D-primitive-in-3D-context (or vice versa)
	// misuse error. Severity is configurable.
	OutsideContext
	// Topology is an invalid-topology error (duplicate point, unpaired
	// edge, an edge used more than twice). Always Fatal.
	Topology
	// Unsupported is a recognized-but-unimplemented feature (a linear
	// extrusion with exactly one zero scale axis). Always Fatal.
	Unsupported
	// Internal is an invariant violation in this module's own algorithms
	// (a face/edge count mismatch, a failed binary search). Always Fatal
	// and tagged accordingly in Record.Message.
	Internal
)

// Location is an opaque handle back to a position in the original source
// text. It carries no semantics for this module beyond being attached to
// diagnostics; the upstream parser is responsible for producing and
// resolving it.
type Location struct {
	// Line and Col are 1-based; zero means "unknown" (e.g. a location
	// synthesized internally rather than sourced from the parser).
	Line, Col int
	// Text is a short excerpt of the originating source, for display.
	Text string
}

// Record is one diagnostic event.
type Record struct {
	Severity  Severity
	Kind      Kind
	Primary   Location
	Secondary Location // zero value if the diagnostic has only one location
	Message   string
}

// Sink receives diagnostic records as they are produced. Report returns
// true if the caller should treat this diagnostic as fatal regardless of
// Record.Severity (e.g. an interactive sink that wants to abort early).
type Sink interface {
	Report(Record) (abort bool)
}

// Effective resolves a Kind that has a configurable severity down to the
// Severity that should actually govern it; Topology, Unsupported, and
// Internal always resolve to Fatal regardless of the configured value.
func Effective(kind Kind, configured Severity) Severity {
	switch kind {
	case Topology, Unsupported, Internal:
		return Fatal
	default:
		return configured
	}
}

// Emit reports rec through sink (if non-nil) after resolving its effective
// severity, and returns whether the caller should treat this as a failure.
func Emit(sink Sink, rec Record, configured Severity) bool {
	rec.Severity = Effective(rec.Kind, configured)
	if rec.Kind == Internal {
		rec.Message = "Internal Error: " + rec.Message
	}
	if rec.Severity == Ignore {
		return false
	}
	abort := false
	if sink != nil {
		abort = sink.Report(rec)
	}
	return abort || rec.Severity == Fatal
}
