package middleware

// Keys under which Auth stores the authenticated identity on the echo context.
const (
	ContextKeyUserID      = "user_id"
	ContextKeyAccessToken = "access_token"
)
