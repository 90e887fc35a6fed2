package utils

import (
	"math/rand"
	"strconv"
	"strings"
)

const identifierLength = 9

// NewIdentifier returns a short random base-36 identifier. Non-cryptographic;
// collision probability is non-zero and unchecked.
func NewIdentifier() string {
	var b strings.Builder
	for b.Len() < identifierLength {
		b.WriteString(strconv.FormatUint(rand.Uint64(), 36))
	}
	return b.String()[:identifierLength]
}
