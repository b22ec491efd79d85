package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

const (
	// HasherArgon2id selects argon2id for new hashes.
	HasherArgon2id = "argon2id"
	// HasherBcrypt selects bcrypt for new hashes.
	HasherBcrypt = "bcrypt"

	argon2idPrefix = "$argon2id$"
)

// ErrUnsupportedHash is returned when a stored hash matches no known algorithm.
var ErrUnsupportedHash = errors.New("unsupported password hash")

// Hasher turns plaintext secrets into one-way hashes and checks them.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) (bool, error)
}

// PasswordHasher creates hashes with one algorithm and verifies argon2id and bcrypt hashes.
// Verification dispatches on the hash prefix, so accounts imported with bcrypt hashes keep working.
type PasswordHasher struct {
	algorithm  string
	params     *argon2id.Params
	bcryptCost int
}

// NewPasswordHasher creates a hasher. Nil params select argon2id.DefaultParams,
// a zero bcrypt cost selects bcrypt.DefaultCost.
func NewPasswordHasher(algorithm string, params *argon2id.Params, bcryptCost int) (*PasswordHasher, error) {
	switch algorithm {
	case "", HasherArgon2id:
		algorithm = HasherArgon2id
	case HasherBcrypt:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedHash, algorithm)
	}

	if params == nil {
		params = argon2id.DefaultParams
	}

	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}

	return &PasswordHasher{algorithm: algorithm, params: params, bcryptCost: bcryptCost}, nil
}

// Hash implements Hasher.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	if h.algorithm == HasherBcrypt {
		out, err := bcrypt.GenerateFromPassword([]byte(plain), h.bcryptCost)
		if err != nil {
			return "", fmt.Errorf("failed to hash password: %w", err)
		}

		return string(out), nil
	}

	out, err := argon2id.CreateHash(plain, h.params)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return out, nil
}

// Verify implements Hasher. Both libraries compare in constant time.
func (h *PasswordHasher) Verify(plain, hash string) (bool, error) {
	switch {
	case strings.HasPrefix(hash, argon2idPrefix):
		match, err := argon2id.ComparePasswordAndHash(plain, hash)
		if err != nil {
			return false, fmt.Errorf("failed to verify password: %w", err)
		}

		return match, nil
	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}

		if err != nil {
			return false, fmt.Errorf("failed to verify password: %w", err)
		}

		return true, nil
	default:
		return false, ErrUnsupportedHash
	}
}
