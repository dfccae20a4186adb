package domain

// AccessMode distinguishes read-only sources from the single writable one.
type AccessMode int

const (
	// ModeReadOnly sources are loaded once and never written back.
	ModeReadOnly AccessMode = iota

	// ModeReadWrite marks the output source. Exactly one exists; the
	// commit action writes the merged selection through it.
	ModeReadWrite
)

// String returns the two-letter marker used in the source panel.
func (m AccessMode) String() string {
	if m == ModeReadWrite {
		return "rw"
	}
	return "ro"
}

// SourceInfo identifies one configured bibliography source.
//
// The origin string is the source's identity: a file glob pattern for
// local sources or an endpoint URL for remote ones. Sources are created
// once at startup and live for the whole process.
type SourceInfo struct {
	// ID is the unique instance identifier.
	ID string

	// Origin is the glob pattern or endpoint URL.
	Origin string

	// Label is the short display label ("1", "2", ...) used in the
	// source panel and for the toggle keys.
	Label string

	// Mode is the access mode.
	Mode AccessMode
}
