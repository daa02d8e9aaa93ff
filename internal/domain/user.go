package domain

// UserIdentity is what the identity provider hands us after validating a
// token. The core only ever uses Sub as an opaque stable user id.
type UserIdentity struct {
	Sub     string `json:"sub"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}
