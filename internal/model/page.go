package model

// Page is an optional offset window over an ordered result.
//
// Clients send (from, size) where from is an element index. Results are
// served in whole pages, so the effective offset rounds from down to a
// multiple of size: from=3, size=2 starts at element 2.
//
// The zero Page (Size == 0) means "no paging": everything is returned.
type Page struct {
	From int
	Size int
}

// Unpaged reports whether the page applies no limit.
func (p Page) Unpaged() bool {
	return p.Size <= 0
}

// Offset is the index of the first element of the page.
func (p Page) Offset() int {
	if p.Unpaged() {
		return 0
	}
	return (p.From / p.Size) * p.Size
}

// Limit is the SQL LIMIT for the page; -1 means unbounded in SQLite.
func (p Page) Limit() int {
	if p.Unpaged() {
		return -1
	}
	return p.Size
}
