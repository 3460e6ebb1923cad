package models

// Episode is a single released item of a show. Number is its 1-based
// position in fetch order; it has no other identity.
type Episode struct {
	Number     int
	Title      string
	DurationMs int64
}

// Page is one bounded batch returned by the episode listing endpoint
type Page struct {
	Episodes []Episode
	// Offset is the offset the page was requested at
	Offset int
	// Retrieved counts raw items in the response, including unavailable
	// entries that were skipped, so the next offset stays aligned
	Retrieved int
	// Total is the platform's declared episode count; it may drift
	Total   int
	HasNext bool
}

// NextOffset returns the offset for the page following this one
func (p *Page) NextOffset() int {
	return p.Offset + p.Retrieved
}
