package models

import "github.com/google/uuid"

// Identity is who performed a request: an authenticated user, an anonymous
// client known only by IP, or both.
type Identity struct {
	UserID uuid.UUID
	IP     string
}

func (i Identity) Authenticated() bool {
	return i.UserID != uuid.Nil
}

// Key resolves the deduplication key for the like ledger. The user id takes
// precedence over the IP address.
func (i Identity) Key() string {
	if i.Authenticated() {
		return i.UserID.String()
	}
	return i.IP
}
