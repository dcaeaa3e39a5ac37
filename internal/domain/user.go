package domain

// User is the account-management collaborator's record. The sync engine only
// reads the active flag and the provider token; everything else is owned by
// the users API.
type User struct {
	ID     string   `firestore:"-" json:"user_id"`
	Active bool     `firestore:"active" json:"active"`
	Token  string   `firestore:"mono_token" json:"mono_token,omitempty"`
	Family []string `firestore:"family,omitempty" json:"family,omitempty"`
}

// HasCredential reports whether the user carries a provider token usable for
// sync. Users without one are skipped and recorded as credential failures.
func (u User) HasCredential() bool {
	return u.Token != ""
}
