// Package persona owns the deterministic identity generator and the
// template cache (the Persona Engine) that shapes every byte a deployment
// emits.
package persona

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/sundew-sh/sundew/pkg/models"
)

// Generate deterministically produces a complete synthetic identity from an
// integer seed. Identical seeds always produce identical personas.
func Generate(seed int64) models.Persona {
	rng := rand.New(rand.NewSource(seed))

	industry := models.Industry(choice(rng, industryStrings()))
	companyName := choice(rng, companyPrefixes) + choice(rng, companySuffixes)
	dataTheme := choice(rng, dataThemes[industry])
	endpointPrefix := choice(rng, endpointPrefixes)
	mcpToolPrefix := choice(rng, mcpToolPrefixes[industry])

	return models.Persona{
		Seed:                 seed,
		CompanyName:          companyName,
		Industry:             industry,
		APIStyle:             choice(rng, apiStyles),
		FrameworkFingerprint: choice(rng, frameworks),
		ErrorStyle:           errorStyles[rng.Intn(len(errorStyles))],
		AuthScheme:           authSchemes[rng.Intn(len(authSchemes))],
		DataTheme:            dataTheme,
		ResponseLatencyMS:    20 + rng.Intn(281), // uniform [20, 300]
		ServerHeader:         choice(rng, serverHeaders),
		EndpointPrefix:       endpointPrefix,
		ExtraHeaders:         generateExtraHeaders(rng),
		MCPServerName:        choice(rng, mcpServerNames),
		MCPToolPrefix:        mcpToolPrefix,
	}
}

func industryStrings() []string {
	out := make([]string, len(models.AllIndustries))
	for i, ind := range models.AllIndustries {
		out[i] = string(ind)
	}
	return out
}

func choice(rng *rand.Rand, options []string) string {
	return options[rng.Intn(len(options))]
}

// generateExtraHeaders draws a probabilistic set of additional response
// headers, some of which are themselves {{variable}} templates resolved at
// render time.
func generateExtraHeaders(rng *rand.Rand) map[string]string {
	headers := map[string]string{}

	if rng.Float64() < 0.6 {
		headers["X-Request-Id"] = "{{request_id}}"
	}
	if rng.Float64() < 0.4 {
		headers["X-RateLimit-Limit"] = strconv.Itoa(rateLimitChoices[rng.Intn(len(rateLimitChoices))])
	}
	if rng.Float64() < 0.3 {
		headers["X-Powered-By"] = poweredByChoices[rng.Intn(len(poweredByChoices))]
	}
	if rng.Float64() < 0.5 {
		headers["X-Response-Time"] = "{{response_time_ms}}ms"
	}

	return headers
}

// RandomSeed returns a fresh non-deterministic seed, used when the
// configured persona source is "auto" and no fixed seed is requested.
func RandomSeed() int64 {
	return rand.New(rand.NewSource(time.Now().UnixNano())).Int63n(1 << 31)
}
