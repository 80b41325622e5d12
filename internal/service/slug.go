package service

import "crypto/rand"

const slugAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-~_"

const slugLength = 20

// slugByteLimit is the largest multiple of len(slugAlphabet) that fits
// in a byte. Random bytes at or above it are rejected so every one of
// the 65 alphabet characters is equally likely.
const slugByteLimit = byte(195)

// newSlug returns an unguessable public identifier for a form.
func newSlug() (string, error) {
	out := make([]byte, 0, slugLength)
	buf := make([]byte, slugLength)
	for len(out) < slugLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= slugByteLimit {
				continue
			}
			out = append(out, slugAlphabet[int(b)%len(slugAlphabet)])
			if len(out) == slugLength {
				break
			}
		}
	}
	return string(out), nil
}
