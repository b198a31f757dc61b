package utils

import "crypto/rand"

const referenceCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateBookingReference returns a human-readable booking reference:
// 8 uppercase alphanumeric characters, e.g. "K7QX2M9A".
func GenerateBookingReference() string {
	b := make([]byte, 8)
	_, err := rand.Read(b)
	if err != nil {
		return ""
	}
	out := make([]byte, len(b))
	for i, v := range b {
		out[i] = referenceCharset[int(v)%len(referenceCharset)]
	}
	return string(out)
}
