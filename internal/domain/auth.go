package domain

import "time"

// Operator is the single configured user allowed to drive the service.
type Operator struct {
	Username     string
	PasswordHash string
}

// Token represents an issued operator token.
type Token struct {
	Value     string
	SessionID string
	Username  string
	ExpiresAt time.Time
	IssuedAt  time.Time
}
