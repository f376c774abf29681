package payblock

import (
	"crypto/md5"
	"encoding/hex"
	"io"
)

// requestHash builds the integrity hash carried on every payblock api call:
// the fields concatenated in their documented order with no separator, the
// api secret appended last, digested with md5 and encoded as lowercase hex.
// The digest choice is fixed by the payblock api, callers cannot change it.
func requestHash(secretKey string, fields ...string) string {
	h := md5.New()
	for _, field := range fields {
		_, _ = io.WriteString(h, field)
	}
	_, _ = io.WriteString(h, secretKey)
	return hex.EncodeToString(h.Sum(nil))
}
