package lobby

import "crypto/rand"

const (
	codeLength  = 5
	codeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// GenerateRoomCode produces a 5-character room code drawn uniformly from the
// 26 uppercase letters. It never checks for collisions with existing rooms;
// that is the server's job.
func GenerateRoomCode() string {
	code := make([]byte, 0, codeLength)
	buf := make([]byte, codeLength)

	// Rejection sampling keeps the per-position distribution uniform:
	// 234 is the largest multiple of 26 below 256.
	for len(code) < codeLength {
		// crypto/rand.Read always fills the buffer and never errors.
		_, _ = rand.Read(buf)
		for _, b := range buf {
			if b >= 234 {
				continue
			}
			code = append(code, codeLetters[int(b)%len(codeLetters)])
			if len(code) == codeLength {
				break
			}
		}
	}

	return string(code)
}
