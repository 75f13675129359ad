// Package auth holds everything about who is calling: password hashing,
// the signed session cookie, the process-local session store, the identity
// middleware and the optional GitHub sign-in.
//
// WHY BCRYPT?
// bcrypt is deliberately slow and salts every hash, so a leaked users table
// cannot be brute-forced cheaply. The salt and cost live inside the hash
// string itself:
//
//	$2a$12$<22-char salt><31-char hash>
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor used outside tests.
const defaultCost = 12

// maxPasswordBytes is bcrypt's input limit. Longer input would be silently
// truncated by the library, so Hash rejects it instead.
const maxPasswordBytes = 72

// ErrInvalidPassword is returned by Verify when the password does not match.
var ErrInvalidPassword = errors.New("auth: invalid password")

// PasswordService provides bcrypt hashing and verification.
//
// It's a struct (not free functions) so that the cost can be injected in
// tests: cost 4 hashes in microseconds, cost 12 takes ~250ms.
type PasswordService struct {
	cost int

	// dummy is a hash of a random value, compared against when the account
	// does not exist so unknown emails cost the same time as wrong passwords.
	dummy []byte
}

// NewPasswordService creates a PasswordService with the default cost.
func NewPasswordService() *PasswordService {
	return newPasswordServiceWithCost(defaultCost)
}

// NewPasswordServiceForTest creates a PasswordService with the given cost.
// Other packages' tests pass bcrypt.MinCost (4). Do NOT use in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return newPasswordServiceWithCost(cost)
}

func newPasswordServiceWithCost(cost int) *PasswordService {
	dummy, err := bcrypt.GenerateFromPassword([]byte("sportshub-no-such-user"), cost)
	if err != nil {
		// Only possible with an out-of-range cost, which is a programming error.
		panic(fmt.Sprintf("auth: generating dummy hash: %v", err))
	}
	return &PasswordService{cost: cost, dummy: dummy}
}

// Hash hashes the given plaintext password with bcrypt.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", fmt.Errorf("auth: password must be %d bytes or fewer", maxPasswordBytes)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify checks a plaintext password against a stored bcrypt hash.
// It returns ErrInvalidPassword on mismatch.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return nil
	}
	// A malformed hash (e.g. the unusable password of a GitHub-only account)
	// is a mismatch from the caller's point of view.
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) || errors.Is(err, bcrypt.ErrHashTooShort) {
		return ErrInvalidPassword
	}
	return fmt.Errorf("auth: comparing password hash: %w", err)
}

// VerifyMissing burns the same bcrypt work as Verify for a login attempt
// against an account that does not exist. It always reports a mismatch.
func (p *PasswordService) VerifyMissing(plaintext string) error {
	_ = bcrypt.CompareHashAndPassword(p.dummy, []byte(plaintext))
	return ErrInvalidPassword
}
