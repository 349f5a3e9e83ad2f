package types

import (
	"crypto/rand"
	"strings"

	"github.com/oklog/ulid/v2"
)

const (
	UUID_PREFIX_CUSTOMER             = "cust"
	UUID_PREFIX_ORDER                = "ord"
	UUID_PREFIX_PRESCRIPTION         = "presc"
	UUID_PREFIX_PRESCRIPTION_PRODUCT = "prxp"
	UUID_PREFIX_PRODUCT              = "prod"
	UUID_PREFIX_TICKET               = "tkt"
	UUID_PREFIX_TRANSACTION          = "txn"
	UUID_PREFIX_CALL                 = "call"
	UUID_PREFIX_REQUEST              = "req"
)

// GenerateUUID returns a lowercase ULID.
func GenerateUUID() string {
	return strings.ToLower(ulid.MustNew(ulid.Now(), ulid.DefaultEntropy()).String())
}

// GenerateUUIDWithPrefix returns a lowercase ULID prefixed with the given
// entity prefix, e.g. "tkt_01h9...".
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return prefix + "_" + GenerateUUID()
}

// GenerateShortCode returns an uppercase random code of length n, used in
// human-facing identifiers like kit ids and ticket numbers.
func GenerateShortCode(n int) string {
	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(buf)
}
