package offers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBankRegistryScore(t *testing.T) {
	r := NewBankRegistry()

	assert.Equal(t, 85, r.Score("HDFC"))
	assert.Equal(t, 90, r.Score("ICICI"))

	// Unknown banks (including comma-joined multi-bank strings) fall back
	// to the neutral default.
	assert.Equal(t, defaultBankScore, r.Score("HDFC, ICICI"))
	assert.Equal(t, defaultBankScore, r.Score("Some Unknown Bank"))
}

func TestRegistryAliasOrderingIsDeterministic(t *testing.T) {
	a := NewBankRegistry()
	b := NewBankRegistry()

	require.Equal(t, len(a.aliases), len(b.aliases))
	for i := range a.aliases {
		assert.Equal(t, a.aliases[i], b.aliases[i])
	}

	// Longest aliases first, so specific names win before generic ones.
	for i := 1; i < len(a.aliases); i++ {
		assert.GreaterOrEqual(t, len(a.aliases[i-1].alias), len(a.aliases[i].alias))
	}
}

func TestRegistryCanonicalOrdering(t *testing.T) {
	r := NewBankRegistry()
	for i := 1; i < len(r.canonical); i++ {
		assert.GreaterOrEqual(t, len(r.canonical[i-1]), len(r.canonical[i]))
	}
}

func TestConfigFor(t *testing.T) {
	jio := ConfigFor("jiomart")
	assert.True(t, jio.DigitalPaymentBonus)
	assert.NotEmpty(t, jio.ExtraVariations)

	amazon := ConfigFor("amazon")
	assert.False(t, amazon.DigitalPaymentBonus)
	assert.Empty(t, amazon.ExtraVariations)

	// Unknown retailers get the generic config.
	generic := ConfigFor("ebay")
	assert.Equal(t, "generic", generic.Name)
	assert.False(t, generic.DigitalPaymentBonus)

	// Case-insensitive lookup.
	assert.Equal(t, RetailerCroma, ConfigFor("CROMA").Name)
}
