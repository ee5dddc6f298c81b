package keygen

import (
	"crypto/rand"
	"encoding/base64"
	"math/big"
)

const alphaNumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSecret returns a URL-safe random secret of n bytes of entropy,
// base64-encoded. Used as the JWT signing secret when none is configured.
func GenerateSecret(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// RandomString returns a random alphanumeric string of the given length
func RandomString(length int) (string, error) {
	result := make([]byte, length)
	max := big.NewInt(int64(len(alphaNumeric)))
	for i := range result {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		result[i] = alphaNumeric[idx.Int64()]
	}
	return string(result), nil
}
