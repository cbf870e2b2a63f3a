package model

import "time"

// Comment is feedback left by a past booker of an item.
type Comment struct {
	ID       int64     `json:"id"`
	ItemID   int64     `json:"-"`
	AuthorID int64     `json:"-"`
	Text     string    `json:"text"`
	Created  time.Time `json:"created"`
}

// CommentView is a comment joined with its author's name.
type CommentView struct {
	ID         int64     `json:"id"`
	ItemID     int64     `json:"-"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}
