package domain

// Session is the client-side authentication state: a bearer token and the
// user it belongs to. Both are set and cleared together.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Authenticated is true iff both token and user are present.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.User != nil
}
