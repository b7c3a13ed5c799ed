package domain

import (
	"crypto/rand"
	"fmt"
)

const (
	ShortCodeLen = 8

	shortCodeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateShortCode returns a uniformly random code. It does not check
// uniqueness; the store rejects duplicates and the caller retries.
func GenerateShortCode() (string, error) {
	alphaLen := len(shortCodeAlphabet)
	cutoff := (256 / alphaLen) * alphaLen

	out := make([]byte, ShortCodeLen)
	filled := 0

	var buf [32]byte
	for filled < ShortCodeLen {
		if _, err := rand.Read(buf[:]); err != nil {
			return "", fmt.Errorf("rand read: %w", err)
		}

		for _, b := range buf {
			if filled >= ShortCodeLen {
				break
			}

			// rejection sampling keeps every symbol equally likely
			if int(b) >= cutoff {
				continue
			}

			out[filled] = shortCodeAlphabet[int(b)%alphaLen]
			filled++
		}
	}

	return string(out), nil
}

func IsShortCode(s string) bool {
	if len(s) != ShortCodeLen {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}

	return true
}
