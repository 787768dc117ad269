package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HFAPIToken    string
	TelegramToken string

	LogLevel string
	Debug    bool

	PreferIPv4 bool

	Addr string

	HFModelURL string
	HFSpaceURL string

	ProviderTimeout time.Duration
	SpaceRetries    int
	SpaceRetryDelay time.Duration

	MoodTTL           time.Duration
	MaxMemoryMessages int

	MaxConcurrent  int
	RequestTimeout time.Duration
	HTTPTimeout    time.Duration
}

func Load() (Config, error) {
	cfg := Config{
		LogLevel:          strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info"))),
		Debug:             getEnvBool("DEBUG", false),
		PreferIPv4:        getEnvBool("PREFER_IPV4", true),
		Addr:              strings.TrimSpace(getEnv("ADDR", ":8000")),
		HFModelURL:        strings.TrimSpace(getEnv("HF_MODEL_URL", "https://router.huggingface.co/hf-inference/models/stabilityai/stable-diffusion-xl-base-1.0")),
		HFSpaceURL:        strings.TrimSpace(getEnv("HF_SPACE_URL", "https://Dvbydt-VizzyAPICHAT.hf.space")),
		ProviderTimeout:   time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 120)) * time.Second,
		SpaceRetries:      getEnvInt("SPACE_RETRIES", 3),
		SpaceRetryDelay:   time.Duration(getEnvInt("SPACE_RETRY_DELAY_SECONDS", 5)) * time.Second,
		MoodTTL:           time.Duration(getEnvInt("MOOD_TTL_SECONDS", 0)) * time.Second,
		MaxMemoryMessages: getEnvInt("MAX_MEMORY_MESSAGES", 50),
		MaxConcurrent:     getEnvInt("MAX_CONCURRENT", 8),
		RequestTimeout:    time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 300)) * time.Second,
		HTTPTimeout:       time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 180)) * time.Second,
	}

	cfg.HFAPIToken = strings.TrimSpace(os.Getenv("HF_API_TOKEN"))
	cfg.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))

	if cfg.HFAPIToken == "" {
		return Config{}, errors.New("HF_API_TOKEN is required")
	}

	if cfg.SpaceRetries < 1 {
		cfg.SpaceRetries = 1
	}
	if cfg.MaxMemoryMessages < 1 {
		cfg.MaxMemoryMessages = 1
	}
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = 120 * time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 300 * time.Second
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 180 * time.Second
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
