package core

// User identifies a message author or a mentioned user.
// ID is what the admin set stores; Name is only used in replies.
type User struct {
	ID   string
	Name string
}
