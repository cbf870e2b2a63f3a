package model

// Item is something a user lends out.
//
// OwnerID never appears in JSON: the owner is implied by the acting user on
// writes, and booking views expose ownership through their own fields.
type Item struct {
	ID          int64  `json:"id"`
	OwnerID     int64  `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"requestId,omitempty"`
}

// NewItem is the input to item creation.
type NewItem struct {
	Name        string
	Description string
	Available   bool
	RequestID   *int64
}

// ItemPatch is a partial update; nil fields are left alone.
type ItemPatch struct {
	Name        *string
	Description *string
	Available   *bool
}

// Apply copies every supplied field onto it.
func (p ItemPatch) Apply(it *Item) {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Available != nil {
		it.Available = *p.Available
	}
}

// ItemView is what GET /items returns.
//
// LastBooking and NextBooking are only filled in when the viewer owns the
// item. Comments are visible to everyone and always serialize as a list.
type ItemView struct {
	Item
	LastBooking *BookingShort `json:"lastBooking"`
	NextBooking *BookingShort `json:"nextBooking"`
	Comments    []CommentView `json:"comments"`
}
