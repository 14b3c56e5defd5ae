// Package traps implements the persona-shaped surfaces an attacker actually
// hits: the AI discovery files, the adaptive REST API, and the MCP
// JSON-RPC server. Each trap renders its response directly from the
// persona's industry pack and a per-request variable set; none of it is
// real data.
package traps

import (
	"hash/fnv"
	"strconv"

	"github.com/google/uuid"

	"github.com/sundew-sh/sundew/pkg/canary"
	"github.com/sundew-sh/sundew/pkg/models"
)

// variables builds the per-request interpolation context for a trap
// response: two independent canary tokens salted by endpoint, a short
// opaque ID, the persona's fabricated domain, and a safe private-range
// octet. timestamp and request_id are left to interpolate.Builtins.
func variables(p models.Persona, endpoint string) map[string]string {
	salt := uuid.NewString()[:8]
	return map[string]string{
		"canary_1":       canary.Mint(p, endpoint+":1:"+salt),
		"canary_2":       canary.Mint(p, endpoint+":2:"+salt),
		"short_id":       uuid.NewString()[:8],
		"company_domain": p.CompanyDomain(),
		"octet":          octet(salt),
	}
}

// octet derives a safe host octet (1-254) from salt so that fabricated
// IPs embedded in response bodies (10.0.1.{{octet}}) stay inside the
// 10.0.0.0/8 private range regardless of input.
func octet(salt string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(salt))
	n := int(h.Sum32()%254) + 1
	return strconv.Itoa(n)
}
