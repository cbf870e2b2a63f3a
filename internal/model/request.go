package model

import "time"

// Request is a "looking for" post: a user describes an item they need and
// other users may list items in response.
type Request struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequesterID int64     `json:"-"`
	Created     time.Time `json:"created"`
}

// RequestView adds the items listed in answer to the request.
type RequestView struct {
	Request
	Items []Item `json:"items"`
}
