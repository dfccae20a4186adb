package domain

// Status is the lifecycle state of a bibliography source.
//
// Valid transitions are Initialized→Loading→{Ready|NoFile} followed by
// Ready↔Searching. NoFile is terminal: a source whose glob matched nothing
// never searches.
type Status int

const (
	// StatusInitialized is the state before the loader worker has started.
	StatusInitialized Status = iota

	// StatusLoading means the one-time load is in progress.
	StatusLoading

	// StatusReady means the source is loaded and idle.
	StatusReady

	// StatusNoFile means the source's glob matched no file. Terminal.
	StatusNoFile

	// StatusSearching means a search is streaming results.
	StatusSearching
)

// String returns the display label for the status.
func (s Status) String() string {
	switch s {
	case StatusInitialized:
		return "initialized"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusNoFile:
		return "no file"
	case StatusSearching:
		return "searching"
	default:
		return "unknown"
	}
}

// ValidTransition reports whether moving from one status to another is
// allowed by the state machine. NoFile admits no successor.
func ValidTransition(from, to Status) bool {
	switch from {
	case StatusInitialized:
		return to == StatusLoading
	case StatusLoading:
		return to == StatusReady || to == StatusNoFile
	case StatusReady:
		return to == StatusSearching
	case StatusSearching:
		return to == StatusReady
	case StatusNoFile:
		return false
	default:
		return false
	}
}
