package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

const ResetTokenBytes = 32

// GenerateResetToken reads ResetTokenBytes from src and returns them hex
// encoded. A nil src falls back to crypto/rand.
func GenerateResetToken(src io.Reader) (string, error) {
	if src == nil {
		src = rand.Reader
	}

	buf := make([]byte, ResetTokenBytes)
	if _, err := io.ReadFull(src, buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// IsResetTokenFormat reports whether s looks like a token produced by
// GenerateResetToken.
func IsResetTokenFormat(s string) bool {
	if len(s) != ResetTokenBytes*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
