package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AntiSnipingConfig controls end-time extensions for late bids.
type AntiSnipingConfig struct {
	Enabled          bool
	TriggerThreshold time.Duration
	ExtendWindow     time.Duration
	MaxExtensions    int
}

// AutoBidConfig controls proxy bidding.
type AutoBidConfig struct {
	Enabled      bool
	MinIncrement float64
}

// PaymentConfig controls winner settlement and the fallback cascade.
type PaymentConfig struct {
	Deadline          time.Duration
	MaxFallbackLevels int
	EscrowThreshold   float64
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port string
}

// Config is the engine configuration, loaded from the environment.
type Config struct {
	AntiSniping AntiSnipingConfig
	AutoBid     AutoBidConfig
	Payment     PaymentConfig
	Server      ServerConfig
}

// Default returns the configuration used when no environment overrides exist.
func Default() *Config {
	return &Config{
		AntiSniping: AntiSnipingConfig{
			Enabled:          true,
			TriggerThreshold: 30 * time.Second,
			ExtendWindow:     60 * time.Second,
			MaxExtensions:    5,
		},
		AutoBid: AutoBidConfig{
			Enabled:      true,
			MinIncrement: 10,
		},
		Payment: PaymentConfig{
			Deadline:          30 * time.Minute,
			MaxFallbackLevels: 3,
			EscrowThreshold:   1000,
		},
		Server: ServerConfig{
			Port: ":8080",
		},
	}
}

// Load reads configuration from the environment, with an optional .env overlay.
// Missing keys keep their defaults.
func Load() *Config {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := Default()

	cfg.AntiSniping.Enabled = getEnvBool("ANTI_SNIPING_ENABLED", cfg.AntiSniping.Enabled)
	cfg.AntiSniping.TriggerThreshold = getEnvSeconds("ANTI_SNIPING_TRIGGER_SECONDS", cfg.AntiSniping.TriggerThreshold)
	cfg.AntiSniping.ExtendWindow = getEnvSeconds("ANTI_SNIPING_EXTEND_SECONDS", cfg.AntiSniping.ExtendWindow)
	cfg.AntiSniping.MaxExtensions = getEnvInt("ANTI_SNIPING_MAX_EXTENSIONS", cfg.AntiSniping.MaxExtensions)

	cfg.AutoBid.Enabled = getEnvBool("AUTO_BID_ENABLED", cfg.AutoBid.Enabled)
	cfg.AutoBid.MinIncrement = getEnvFloat("AUTO_BID_MIN_INCREMENT", cfg.AutoBid.MinIncrement)

	cfg.Payment.Deadline = getEnvMinutes("PAYMENT_DEADLINE_MINUTES", cfg.Payment.Deadline)
	cfg.Payment.MaxFallbackLevels = getEnvInt("PAYMENT_MAX_FALLBACK_LEVELS", cfg.Payment.MaxFallbackLevels)
	cfg.Payment.EscrowThreshold = getEnvFloat("PAYMENT_ESCROW_THRESHOLD", cfg.Payment.EscrowThreshold)

	if p := os.Getenv("PORT"); p != "" {
		cfg.Server.Port = ":" + p
	}

	return cfg
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvSeconds(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}

func getEnvMinutes(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Minute
		}
	}
	return fallback
}
