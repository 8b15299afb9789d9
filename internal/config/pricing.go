package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PricingConfig drives the paid product surface: unlock and background
// verification prices are in minor currency units.
type PricingConfig struct {
	UnlockPrice int64  `mapstructure:"unlockPrice"`
	BGVPrice    int64  `mapstructure:"bgvPrice"`
	Currency    string `mapstructure:"currency"`
	Disclaimer  string `mapstructure:"disclaimer"`
	MaskedPhone string `mapstructure:"maskedPhone"`
}

func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		UnlockPrice: 99,
		BGVPrice:    499,
		Currency:    "INR",
		Disclaimer:  "House Help is a discovery platform. Please verify the worker independently before hiring.",
		MaskedPhone: "+91-XXXXXXXXXX",
	}
}

type PricingHolder struct {
	current atomic.Value // holds PricingConfig
}

func NewPricingHolder() (*PricingHolder, error) {
	v := viper.New()

	v.SetConfigName("pricing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/househelp/config") // Volume-mounted config
	v.AddConfigPath("/etc/househelp")            // System config
	v.AddConfigPath(".")                         // Current directory (dev mode)

	v.SetEnvPrefix("HOUSEHELP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultPricingConfig()
	v.SetDefault("pricing.unlockPrice", defaults.UnlockPrice)
	v.SetDefault("pricing.bgvPrice", defaults.BGVPrice)
	v.SetDefault("pricing.currency", defaults.Currency)
	v.SetDefault("pricing.disclaimer", defaults.Disclaimer)
	v.SetDefault("pricing.maskedPhone", defaults.MaskedPhone)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg PricingConfig
	if err := v.UnmarshalKey("pricing", &cfg); err != nil {
		return nil, err
	}
	if err := validatePricingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &PricingHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PricingConfig
		if err := v.UnmarshalKey("pricing", &updated); err != nil {
			log.Printf("[pricing-config] reload failed: %v", err)
			return
		}
		if err := validatePricingConfig(updated); err != nil {
			log.Printf("[pricing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[pricing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *PricingHolder) Get() PricingConfig {
	return h.current.Load().(PricingConfig)
}

// NewStaticPricingHolder returns a holder pinned to cfg, without file watching.
func NewStaticPricingHolder(cfg PricingConfig) *PricingHolder {
	holder := &PricingHolder{}
	holder.current.Store(cfg)
	return holder
}

func validatePricingConfig(cfg PricingConfig) error {
	if cfg.UnlockPrice <= 0 {
		return errors.New("pricing.unlockPrice must be positive")
	}
	if cfg.BGVPrice <= 0 {
		return errors.New("pricing.bgvPrice must be positive")
	}
	if cfg.Disclaimer == "" {
		return errors.New("pricing.disclaimer cannot be empty")
	}
	return nil
}
