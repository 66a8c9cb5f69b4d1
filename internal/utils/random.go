package utils

import (
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

const idLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandString returns a short random identifier used for public recipe and
// comment ids (URL slugs). Not for secrets.
func RandString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = idLetters[rand.Intn(len(idLetters))]
	}
	return string(b)
}

// GenerateRandomCode returns an activation / reset code of n hex characters,
// derived from a UUID so codes never collide within their short lifetime.
func GenerateRandomCode(n int) string {
	code := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(code) {
		n = len(code)
	}
	return strings.ToUpper(code[:n])
}

// NewImageName returns a unique name for an uploaded image.
func NewImageName() string {
	return uuid.NewString()
}
