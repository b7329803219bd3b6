package store

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// DomainOutcome prefixes outcome IDs. The version suffix allows the
// algorithm to change without colliding with stored IDs.
const DomainOutcome = "unitgate/outcome/v1"

// hashWithDomain computes SHA256(domain + 0x00 + parts joined by 0x00).
// The separators keep field boundaries unambiguous.
func hashWithDomain(domain string, parts ...string) string {
	h := sha256.New()
	h.Write([]byte(domain))
	for _, p := range parts {
		h.Write([]byte{0x00})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// OutcomeID computes the content-addressed ID of an outcome. It is stable
// for the same run, unit and sequence number.
func OutcomeID(runID, identity string, seq int64) string {
	return hashWithDomain(DomainOutcome, runID, identity, strconv.FormatInt(seq, 10))
}
