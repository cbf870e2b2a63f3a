// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data: plain values with JSON tags,
// no behaviour beyond small pure helpers.
package model

// User is a registered ShareIt member.
//
// Email is unique across all users. The store enforces it with a UNIQUE
// index and the user service checks it first so the client gets a readable
// error instead of a constraint failure.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserPatch carries a partial update. A nil field means "not supplied", so
// a PATCH body of {"name":"x"} leaves the email untouched.
type UserPatch struct {
	Name  *string
	Email *string
}

// Apply copies every supplied field onto u.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
}
