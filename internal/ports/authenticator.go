package ports

// Caller roles the API distinguishes.
const (
	RoleAdmin  = "admin"
	RoleDriver = "driver"
)

// Identity is the resolved caller of an authenticated request.
type Identity struct {
	Subject string
	Role    string
}

// Port: maps a bearer credential to a caller identity.
type Authenticator interface {
	// Return the identity encoded in token, or an error for a missing,
	// malformed, expired or foreign credential.
	ResolveCaller(token string) (Identity, error)
}
