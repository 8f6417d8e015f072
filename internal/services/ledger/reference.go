package ledger

import (
	"crypto/rand"
	"fmt"
)

const (
	referencePrefix   = "TX"
	referenceLength   = 8
	referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// largest multiple of len(referenceAlphabet) that fits in a byte
	referenceCutoff = 252
)

// newReference returns a transfer note such as TX7Q2MZK0A.
func newReference() (string, error) {
	out := make([]byte, 0, len(referencePrefix)+referenceLength)
	out = append(out, referencePrefix...)

	buf := make([]byte, referenceLength*2)

	for len(out) < cap(out) {
		_, err := rand.Read(buf)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}

		for _, b := range buf {
			if b >= referenceCutoff {
				continue
			}

			out = append(out, referenceAlphabet[int(b)%len(referenceAlphabet)])
			if len(out) == cap(out) {
				break
			}
		}
	}

	return string(out), nil
}
