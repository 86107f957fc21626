package service

import (
	"crypto/rand"
	"strconv"
	"strings"
	"time"
)

const base36Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateOrderNumber builds a human-readable order token from the current
// time plus a short random suffix, e.g. ORD-MBXK2P1T-7QF. Uniqueness is
// enforced by the database; callers retry on a collision.
func GenerateOrderNumber(now time.Time) string {
	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))

	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	suffix := make([]byte, 3)
	for i, b := range buf {
		suffix[i] = base36Alphabet[int(b)%len(base36Alphabet)]
	}

	return "ORD-" + ts + "-" + string(suffix)
}
