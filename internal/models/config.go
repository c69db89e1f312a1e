package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Config struct {
	APIToken string `mapstructure:"api_token"`
	BaseURL  string `mapstructure:"base_url"`

	Month string `mapstructure:"month"` // optional "YYYY-MM" override

	PageDelay        time.Duration `mapstructure:"page_delay"`
	DayDelay         time.Duration `mapstructure:"day_delay"`
	RateLimitWait    time.Duration `mapstructure:"rate_limit_wait"`
	RateLimitRetries int           `mapstructure:"rate_limit_retries"` // 0 means retry forever
	Workers          int           `mapstructure:"workers"`

	Timezone         string  `mapstructure:"timezone"`
	DelayedThreshold float64 `mapstructure:"delayed_threshold"`

	SenderEmail    string `mapstructure:"sender_email"`
	SenderPassword string `mapstructure:"sender_password"`
	RecipientEmail string `mapstructure:"recipient_email"` // comma-separated list
	SMTPHost       string `mapstructure:"smtp_host"`
	SMTPPort       int    `mapstructure:"smtp_port"`

	DryRun bool `mapstructure:"dry_run"`
}

// Recipients splits the comma-separated RECIPIENT_EMAIL value, trimming
// whitespace and dropping empty entries.
func (cfg *Config) Recipients() []string {
	var out []string
	for _, addr := range strings.Split(cfg.RecipientEmail, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// LoadConfig initializes and reads the configuration using Viper
func LoadConfig(cfgFile string) (*Config, error) {
	// a local .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	viper.SetDefault("timezone", "Asia/Riyadh")
	viper.SetDefault("page_delay", 500*time.Millisecond)
	viper.SetDefault("day_delay", 3*time.Second)
	viper.SetDefault("rate_limit_wait", 10*time.Second)
	viper.SetDefault("workers", 1)
	viper.SetDefault("delayed_threshold", 15.0)
	viper.SetDefault("smtp_host", "smtp.gmail.com")
	viper.SetDefault("smtp_port", 587)

	if err := viper.ReadInConfig(); err != nil {
		// the config file is optional, the environment alone is enough
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if config.APIToken == "" || config.BaseURL == "" {
		return nil, fmt.Errorf("missing API_TOKEN or BASE_URL in environment")
	}

	return &config, nil
}
