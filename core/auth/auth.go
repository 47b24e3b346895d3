package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt cost used for new hashes.
var HashCost = bcrypt.DefaultCost

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// PrehashPrefix marks bcrypt hashes taken over prehash(password).
// Unmarked bcrypt hashes were taken over the raw password.
const PrehashPrefix = "$sha256$"

const prehashKey = "stonehub/password/v1"

// prehash 把任意长度的密码压成 44 字节，避开 bcrypt 的 72 字节上限
func prehash(password string) []byte {
	mac := hmac.New(sha256.New, []byte(prehashKey))
	mac.Write([]byte(password))
	sum := mac.Sum(nil)
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum)
	return out
}

// HashPassword generates a bcrypt hash of the password. Passwords of any length are accepted.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(prehash(password), HashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return PrehashPrefix + string(bytes), nil
}

// CheckPasswordHash compares a password with a hash produced by HashPassword,
// or with an older bcrypt hash of the raw password.
func CheckPasswordHash(password, hash string) bool {
	if rest, ok := strings.CutPrefix(hash, PrehashPrefix); ok {
		return bcrypt.CompareHashAndPassword([]byte(rest), prehash(password)) == nil
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IsHashed reports whether stored looks like a bcrypt hash.
func IsHashed(stored string) bool {
	stored = strings.TrimPrefix(stored, PrehashPrefix)
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

// VerifyPassword checks password against a stored value. Rows written before
// hashing was introduced hold plaintext; those are compared in constant time
// and reported with needsRehash so the caller can upgrade them.
func VerifyPassword(password, stored string) (ok bool, needsRehash bool) {
	if IsHashed(stored) {
		return CheckPasswordHash(password, stored), false
	}
	ok = subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
	return ok, ok
}

// BurnCompare spends one bcrypt comparison, for lookups of unknown accounts.
func BurnCompare(password string) {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword(prehash("stonehub-dummy-password"), HashCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, prehash(password))
}
