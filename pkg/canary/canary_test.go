package canary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sundew-sh/sundew/pkg/models"
)

func TestMint_DeterministicForSameInputs(t *testing.T) {
	p := models.Persona{Seed: 42, CompanyName: "Acme Corp"}
	assert.Equal(t, Mint(p, "salt"), Mint(p, "salt"))
	assert.Len(t, Mint(p, "salt"), Length)
}

func TestMint_DiffersAcrossPersonas(t *testing.T) {
	p1 := models.Persona{Seed: 1, CompanyName: "Acme Corp"}
	p2 := models.Persona{Seed: 2, CompanyName: "Globex Inc"}
	assert.NotEqual(t, Mint(p1, "salt"), Mint(p2, "salt"))
}

func TestMint_DiffersAcrossSalts(t *testing.T) {
	p := models.Persona{Seed: 1, CompanyName: "Acme Corp"}
	assert.NotEqual(t, Mint(p, "salt-1"), Mint(p, "salt-2"))
}

func TestFakeAPIKey_CarriesWatermark(t *testing.T) {
	p := models.Persona{Seed: 1, CompanyName: "Acme Corp"}
	key := FakeAPIKey(p, "token")
	assert.Contains(t, key, "sk-sundew-FAKE-")
}
