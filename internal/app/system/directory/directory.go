// Package directory abstracts the Account Directory: the identity provider
// that owns sign-in credentials for portal users.
//
// Enrollment approval provisions a directory identity for each new member
// and the login feature authenticates against it. Two implementations are
// provided: an HTTP client for a hosted directory service, and a local
// implementation backed by the application's own database for single-node
// deployments.
package directory

import "context"

// Identity is a provisioned directory account.
type Identity struct {
	ID       string
	Email    string
	Username string
	Role     string
}

// NewIdentity holds the fields needed to provision an account.
type NewIdentity struct {
	Email    string
	Password string
	Username string
	Role     string
}

// Service is the directory operations the portal depends on.
//
// Implementations classify failures with the apperr kinds: Conflict when
// the email or username is already taken, NotFound when deleting an
// unknown identity, Validation for rejected credentials, and Remote for
// transport or infrastructure failures.
type Service interface {
	// CreateIdentity provisions a new account and returns it with its
	// directory-assigned ID.
	CreateIdentity(ctx context.Context, in NewIdentity) (Identity, error)

	// DeleteIdentity removes an account. Deleting an identity that does
	// not exist returns a NotFound error.
	DeleteIdentity(ctx context.Context, id string) error

	// Authenticate verifies an email/password pair and returns the
	// matching identity. Bad credentials return a Validation error.
	Authenticate(ctx context.Context, email, password string) (Identity, error)
}
