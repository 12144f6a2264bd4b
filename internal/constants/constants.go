package constants

import "time"

// Context keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyRequestID = "request_id"
)

// Account rules
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt input limit
)

// DefaultListTitle is the list every new account starts with.
const DefaultListTitle = "Tasks"

// Token lifetimes
const (
	DefaultSessionTTL    = time.Hour
	DefaultResetTokenTTL = time.Hour
	ResetTokenBytes      = 32
)

const HeaderRequestID = "X-Request-ID"
