package models

// Identity is the authenticated-user object supplied by the identity
// provider's session token. The portal never owns credentials; this is the
// only view of a user it gets.
type Identity struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}
