package usecase

import (
	"crypto/rand"
	"fmt"
	"io"
	"time"
)

// generateCodeValue creates a scan code value: a millisecond timestamp plus a
// random suffix. Format: QR-<unixms>-<XXXXXXXXXXXX>. Uniqueness is enforced
// by the storage layer; the random suffix only makes collisions negligible.
func generateCodeValue() (string, error) {
	// A character set that avoids ambiguous characters like O/0, I/1, l.
	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	const suffixLength = 12

	buffer := make([]byte, suffixLength)
	if _, err := io.ReadFull(rand.Reader, buffer); err != nil {
		return "", err
	}
	for i := 0; i < suffixLength; i++ {
		buffer[i] = chars[int(buffer[i])%len(chars)]
	}

	return fmt.Sprintf("QR-%d-%s", time.Now().UnixMilli(), string(buffer)), nil
}
