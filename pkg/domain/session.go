package domain

// Session is the authenticated identity used for protected requests.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"user"`
}

// Valid reports whether both the token and the user id are present.
func (s Session) Valid() bool {
	return s.Token != "" && s.UserID != ""
}
