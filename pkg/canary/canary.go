// Package canary derives per-response, persona-tied tokens embedded in
// fabricated data so that exfiltrated content is attributable to the
// deployment that leaked it.
package canary

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/sundew-sh/sundew/pkg/models"
)

// Length is the number of hex characters kept from the SHA-256 digest.
const Length = 16

// Mint derives a deterministic, persona-tied canary token from the
// persona's seed, company name, and a caller-supplied salt. The same
// (persona, salt) pair always mints the same token; distinct personas mint
// distinct tokens for the same salt with overwhelming probability.
func Mint(p models.Persona, salt string) string {
	raw := fmt.Sprintf("%d:%s:%s", p.Seed, p.CompanyName, salt)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])[:Length]
}

// FakeAPIKey builds a watermarked, unambiguously-fake credential string
// embedding a canary. Every fabricated API key in the system begins with
// this literal marker per the external safety contract.
func FakeAPIKey(p models.Persona, salt string) string {
	return "sk-sundew-FAKE-" + Mint(p, salt)
}
