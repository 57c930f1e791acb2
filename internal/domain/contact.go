package domain

// Contact is one trusted emergency contact registered by a user.
type Contact struct {
	PK     string
	SK     string
	UserID string
	Name   string
	Phone  string
	Added  string
}
