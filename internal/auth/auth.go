package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidKey is returned when a key does not match the stored hash.
var ErrInvalidKey = errors.New("invalid api key")

const hashCost = 12

// HashKey hashes an API key with bcrypt for storage in the config file.
func HashKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", errors.New("hash key: empty key")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), hashCost)
	if err != nil {
		return "", fmt.Errorf("hash key: %w", err)
	}
	return string(hash), nil
}

// CheckKey compares a plaintext key against a bcrypt hash.
func CheckKey(key, hash string) error {
	if key == "" {
		return ErrInvalidKey
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidKey
		}
		return fmt.Errorf("check key: %w", err)
	}
	return nil
}

var keyWords = []string{
	"anchor", "bulletin", "channel", "column", "courier", "daily",
	"dispatch", "edition", "feature", "gazette", "herald", "journal",
	"ledger", "monitor", "morning", "observer", "planet", "press",
	"record", "report", "review", "sentinel", "signal", "standard",
	"story", "tribune", "update", "voice", "weekly", "wire",
}

// GenerateKey returns a readable random key such as "herald-wire-story-48213".
func GenerateKey() (string, error) {
	parts := make([]string, 0, 4)
	for range 3 {
		i, err := randInt(len(keyWords))
		if err != nil {
			return "", err
		}
		parts = append(parts, keyWords[i])
	}
	n, err := randInt(90000)
	if err != nil {
		return "", err
	}
	parts = append(parts, fmt.Sprintf("%d", n+10000))
	return strings.Join(parts, "-"), nil
}

func randInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("generate key: %w", err)
	}
	return int(v.Int64()), nil
}
