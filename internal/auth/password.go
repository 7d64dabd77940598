package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	hashTag        = "pbkdf2_sha256"
	hashIterations = 100000
	saltLength     = 16
	keyLength      = 32
)

// HashPassword derives a salted digest in the tagged format
// "pbkdf2_sha256:<iterations>:<salt hex>:<key hex>".
func HashPassword(plaintext string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := pbkdf2.Key([]byte(plaintext), salt, hashIterations, keyLength, sha256.New)
	return fmt.Sprintf("%s:%d:%s:%s", hashTag, hashIterations,
		hex.EncodeToString(salt), hex.EncodeToString(key)), nil
}

// VerifyPassword checks plaintext against a stored digest. It never fails:
// malformed digests verify false, recognized-but-unsupported legacy bcrypt
// digests verify false (forcing a reset), and anything else is treated as a
// stored plaintext password so pre-hashing accounts keep working until
// their next login upgrades them.
func VerifyPassword(plaintext, stored string) bool {
	if strings.HasPrefix(stored, hashTag+":") {
		parts := strings.Split(stored, ":")
		if len(parts) != 4 {
			return false
		}
		iterations, err := strconv.Atoi(parts[1])
		if err != nil || iterations <= 0 {
			return false
		}
		salt, err := hex.DecodeString(parts[2])
		if err != nil {
			return false
		}
		want, err := hex.DecodeString(parts[3])
		if err != nil || len(want) == 0 {
			return false
		}
		got := pbkdf2.Key([]byte(plaintext), salt, iterations, len(want), sha256.New)
		return subtle.ConstantTimeCompare(got, want) == 1
	}

	if isLegacyBcrypt(stored) {
		slog.Warn("stored credential uses an unsupported legacy format, password reset required")
		return false
	}

	// Plaintext migration path.
	return subtle.ConstantTimeCompare([]byte(plaintext), []byte(stored)) == 1
}

// NeedsRehash reports whether a successful login should transparently
// replace the stored digest with the modern tagged format.
func NeedsRehash(stored string) bool {
	return !strings.HasPrefix(stored, hashTag+":")
}

func isLegacyBcrypt(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}
