package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// codeLength is the number of characters in a pickup or return code. Codes
// are read out loud during a physical handoff, so they stay short.
const codeLength = 6

// newHandoffCode returns an unpredictable uppercase hex code.
func newHandoffCode() (string, error) {
	buf := make([]byte, codeLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate handoff code: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
