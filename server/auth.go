package server

import "golang.org/x/crypto/bcrypt"

// Authenticator checks connection passwords against a bcrypt hash held
// only in memory. The cleartext never outlives New.
type Authenticator struct {
	hash []byte
}

// NewAuthenticator hashes the configured password. Note the bcrypt input
// limit of 72 bytes.
func NewAuthenticator(password string) (*Authenticator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Authenticator{hash: hash}, nil
}

// Check reports whether password matches.
func (a *Authenticator) Check(password string) bool {
	return bcrypt.CompareHashAndPassword(a.hash, []byte(password)) == nil
}
