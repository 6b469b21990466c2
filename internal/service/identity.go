package service

// Identity is the submitter of a quiz attempt. A zero Identity is a guest;
// only Authenticated identities produce persisted attempts.
type Identity struct {
	userID int
	authed bool
}

// Guest returns the anonymous identity.
func Guest() Identity {
	return Identity{}
}

// Authenticated returns an identity bound to a user ID.
func Authenticated(userID int) Identity {
	return Identity{userID: userID, authed: true}
}

// IsGuest reports whether the identity is anonymous.
func (i Identity) IsGuest() bool {
	return !i.authed
}

// UserID returns the bound user ID. Ok is false for guests.
func (i Identity) UserID() (int, bool) {
	return i.userID, i.authed
}
