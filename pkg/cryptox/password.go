package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters. N is the CPU/memory cost, r the block size, p the
// parallelism factor. 32-byte derived keys, 16-byte salts.
const (
	scryptN   = 32768
	scryptR   = 8
	scryptP   = 1
	keyLength = 32
	SaltSize  = 16
)

// ErrSecretMismatch is returned when a secret does not match the stored hash.
var ErrSecretMismatch = errors.New("cryptox: secret does not match")

// GenerateSalt returns a fresh random salt, hex encoded.
func GenerateSalt() (string, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(salt), nil
}

// HashSecret derives a hex-encoded scrypt hash of the secret using the
// supplied hex-encoded salt.
func HashSecret(secret, saltHex string) (string, error) {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return "", fmt.Errorf("invalid salt encoding: %w", err)
	}

	hash, err := scrypt.Key([]byte(secret), salt, scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return "", fmt.Errorf("failed to derive key: %w", err)
	}
	return hex.EncodeToString(hash), nil
}

// VerifySecret recomputes the scrypt hash of the secret with the stored salt
// and compares it to the stored hash in constant time.
func VerifySecret(secret, saltHex, hashHex string) error {
	expected, err := hex.DecodeString(hashHex)
	if err != nil {
		return fmt.Errorf("invalid hash encoding: %w", err)
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return fmt.Errorf("invalid salt encoding: %w", err)
	}

	computed, err := scrypt.Key([]byte(secret), salt, scryptN, scryptR, scryptP, len(expected))
	if err != nil {
		return fmt.Errorf("failed to derive key: %w", err)
	}

	if subtle.ConstantTimeCompare(computed, expected) != 1 {
		return ErrSecretMismatch
	}
	return nil
}
