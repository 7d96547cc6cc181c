package models

import (
	"time"
)

// Access token issued by the token manager
// Self-contained: nothing about it is stored anywhere
type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}
