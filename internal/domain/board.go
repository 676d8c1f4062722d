package domain

// Board is a configured board code with its display name.
// Boards come from a fixed configuration set, not from storage.
type Board struct {
	ShortName BoardShortName
	Name      BoardName
}

// BoardPage is one page of a board: its threads in bump order.
type BoardPage struct {
	Board
	Threads []*ThreadSummary
}

// FloodDecision is the outcome of a flood-control check.
type FloodDecision struct {
	Allowed bool
	// RetryAfter is how long the client has to wait when denied.
	RetryAfter int64 // seconds
}
