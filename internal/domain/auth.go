package domain

import "time"

// SubjectType differentiates token audiences.
type SubjectType string

const (
	SubjectTypePatient SubjectType = "PATIENT"
)

// TokenTypeShare marks share-link tokens. A signed token whose type claim is
// anything else must never grant shared access, even with a valid signature.
const TokenTypeShare = "share"

// Token represents issued authentication token metadata.
type Token struct {
	ID        string
	SubjectID string
	Subject   SubjectType
	ExpiresAt time.Time
	IssuedAt  time.Time
}
