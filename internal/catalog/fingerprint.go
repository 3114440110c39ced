package catalog

import (
	"crypto/sha1"
	"encoding/hex"

	"showfinder/internal/domain"
)

// Fingerprint identifies the catalog contents. Any change to an entry's
// searchable fields or order yields a different value.
func Fingerprint(c domain.Catalog) string {
	h := sha1.New()
	for _, e := range c {
		for _, v := range e.FieldValues() {
			h.Write([]byte(v))
			h.Write([]byte{0})
		}
		h.Write([]byte{1})
	}
	return hex.EncodeToString(h.Sum(nil)[:8])
}
