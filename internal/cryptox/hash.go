// Package cryptox hashes and verifies account passwords. Stored hashes are
// self-describing: bcrypt hashes carry the usual "$2a$" prefix and argon2id
// hashes the "$argon2id$" prefix, so Verify works on either regardless of
// which algorithm new passwords use. Bare 64-character hex digests are
// unsalted SHA-256 hashes from older account files; they still verify but
// should be replaced on the next successful login (see NeedsRehash).
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/smarttask/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"

	DefaultCost = bcrypt.DefaultCost
	MinCost     = bcrypt.MinCost
)

var (
	ErrUnknownAlgorithm = errors.New("unknown password hash algorithm")
	ErrMalformedHash    = errors.New("malformed password hash")
)

// Hasher turns a plaintext password into an opaque stored hash and checks a
// password against one. Verify returns common.ErrWrongPassword on mismatch.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) error
}

// New returns the hasher for algorithm. cost only applies to bcrypt.
func New(algorithm string, cost int) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", AlgorithmBcrypt:
		return BcryptHasher{Cost: cost}, nil
	case AlgorithmArgon2id:
		return Argon2Hasher{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}

// Verify checks password against a hash produced by any supported hasher.
func Verify(hash, password string) error {
	switch {
	case strings.HasPrefix(hash, argon2Prefix):
		return Argon2Hasher{}.Verify(hash, password)
	case isLegacy(hash):
		return verifyLegacy(hash, password)
	default:
		return BcryptHasher{}.Verify(hash, password)
	}
}

// NeedsRehash reports whether hash uses the legacy unsalted format.
func NeedsRehash(hash string) bool {
	return isLegacy(hash)
}

const legacyLen = sha256.Size * 2

func isLegacy(hash string) bool {
	if len(hash) != legacyLen {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}

func verifyLegacy(hash, password string) error {
	sum := sha256.Sum256([]byte(password))
	got := hex.EncodeToString(sum[:])
	if subtle.ConstantTimeCompare([]byte(got), []byte(strings.ToLower(hash))) != 1 {
		return common.ErrWrongPassword
	}
	return nil
}

type BcryptHasher struct {
	Cost int
}

// bcryptMaxLen is the longest input bcrypt accepts.
const bcryptMaxLen = 72

// bcryptInput passes short passwords through unchanged and folds longer ones
// into a base64 SHA-256 digest, which bcrypt always accepts.
func bcryptInput(password string) []byte {
	if len(password) <= bcryptMaxLen {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword(bcryptInput(password), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

func (h BcryptHasher) Verify(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return common.ErrWrongPassword
	default:
		return fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}

const (
	argon2Prefix  = "$argon2id$"
	argon2SaltLen = 16
)

// Argon2Hasher stores "$argon2id$<salt hex>$<key hex>".
type Argon2Hasher struct{}

func deriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

func (Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := deriveKey([]byte(password), salt)
	return argon2Prefix + hex.EncodeToString(salt) + "$" + hex.EncodeToString(key), nil
}

func (Argon2Hasher) Verify(hash, password string) error {
	rest, ok := strings.CutPrefix(hash, argon2Prefix)
	if !ok {
		return ErrMalformedHash
	}
	saltHex, keyHex, ok := strings.Cut(rest, "$")
	if !ok {
		return ErrMalformedHash
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	want, err := hex.DecodeString(keyHex)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}

	got := deriveKey([]byte(password), salt)
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return common.ErrWrongPassword
	}
	return nil
}
