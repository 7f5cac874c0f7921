package security

import "fmt"

// DefaultInviteTokenLength matches the width of the token column.
const DefaultInviteTokenLength = 64

var tokenCharset = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")

// GenerateInviteToken produces a random alphanumeric token for an
// invitation. Uniqueness is enforced by the storage layer, not here.
func GenerateInviteToken(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}

	result := make([]rune, length)
	for i := 0; i < length; i++ {
		idx, err := randInt(len(tokenCharset))
		if err != nil {
			return "", err
		}
		result[i] = tokenCharset[idx]
	}
	return string(result), nil
}
