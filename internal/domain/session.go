package domain

import "time"

// Session holds the per-operator interaction state: the selected role and the
// most recently generated authorization text.
type Session struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	SelectedRole      string    `json:"selected_role,omitempty"`
	AuthorizationText string    `json:"authorization_text,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// HasAuthorization reports whether a generated text is pending.
func (s *Session) HasAuthorization() bool {
	return s != nil && s.AuthorizationText != ""
}

// ClearAuthorization drops any pending generated text.
func (s *Session) ClearAuthorization() {
	s.AuthorizationText = ""
}
