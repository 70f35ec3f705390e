package pagination

// State is where a page is in the overflow lifecycle
type State int

const (
	// Stable pages have no known overflow
	Stable State = iota
	// PendingCheck pages have an overflow check scheduled
	PendingCheck
	// Overflowing pages are waiting for a split
	Overflowing
	// Splitting pages are being split
	Splitting
)

func (s State) String() string {
	switch s {
	case Stable:
		return "stable"
	case PendingCheck:
		return "pending-check"
	case Overflowing:
		return "overflowing"
	case Splitting:
		return "splitting"
	default:
		return "unknown"
	}
}
