package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePricingConfig(t *testing.T) {
	valid := DefaultPricingConfig()
	assert.NoError(t, validatePricingConfig(valid))

	noUnlockPrice := valid
	noUnlockPrice.UnlockPrice = 0
	assert.Error(t, validatePricingConfig(noUnlockPrice))

	negativeBGV := valid
	negativeBGV.BGVPrice = -1
	assert.Error(t, validatePricingConfig(negativeBGV))

	noDisclaimer := valid
	noDisclaimer.Disclaimer = ""
	assert.Error(t, validatePricingConfig(noDisclaimer))
}

func TestStaticPricingHolder(t *testing.T) {
	cfg := DefaultPricingConfig()
	cfg.UnlockPrice = 149

	holder := NewStaticPricingHolder(cfg)
	assert.Equal(t, int64(149), holder.Get().UnlockPrice)
	assert.Equal(t, "INR", holder.Get().Currency)
}
