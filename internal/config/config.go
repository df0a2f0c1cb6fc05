package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"mensa/internal/core"
)

type Config struct {
	// HTTP Server
	Port string

	// Report
	ReportYear int

	// Campus-card API
	CampusBaseURL      string
	CampusTokenURL     string
	CampusClientID     string
	CampusClientSecret string

	// Fetching
	FetchConcurrency int
	HTTPTimeout      time.Duration
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		ReportYear: getEnvInt("REPORT_YEAR", currentShiftedYear()),

		CampusBaseURL:      getEnv("CAMPUS_API_BASE_URL", ""),
		CampusTokenURL:     getEnv("CAMPUS_TOKEN_URL", ""),
		CampusClientID:     getEnv("CAMPUS_CLIENT_ID", ""),
		CampusClientSecret: getEnv("CAMPUS_CLIENT_SECRET", ""),

		FetchConcurrency: getEnvInt("FETCH_CONCURRENCY", 4),
		HTTPTimeout:      getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.ReportYear < 2000 || c.ReportYear > 2100 {
		errors = append(errors, fmt.Sprintf("invalid report year %d: must be between 2000 and 2100", c.ReportYear))
	}

	if c.CampusBaseURL == "" {
		errors = append(errors, "CAMPUS_API_BASE_URL is required")
	} else if err := validateHTTPURL(c.CampusBaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid campus API base URL '%s': %v", c.CampusBaseURL, err))
	}

	if c.CampusTokenURL == "" {
		errors = append(errors, "CAMPUS_TOKEN_URL is required")
	} else if err := validateHTTPURL(c.CampusTokenURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid campus token URL '%s': %v", c.CampusTokenURL, err))
	}

	if c.CampusClientID == "" {
		errors = append(errors, "CAMPUS_CLIENT_ID is required")
	}
	if c.CampusClientSecret == "" {
		errors = append(errors, "CAMPUS_CLIENT_SECRET is required")
	}

	if c.FetchConcurrency < 1 || c.FetchConcurrency > 12 {
		errors = append(errors, fmt.Sprintf("invalid fetch concurrency %d: must be between 1 and 12", c.FetchConcurrency))
	}

	if c.HTTPTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must be at least 1 second", c.HTTPTimeout))
	} else if c.HTTPTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must be at most 5 minutes", c.HTTPTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func validateHTTPURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("scheme must be 'http' or 'https', got '%s'", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

// currentShiftedYear is the current year in the fixed UTC+8 timezone, so the
// default report year does not depend on the host timezone.
func currentShiftedYear() int {
	return core.ShiftedTime(time.Now().Unix()).Year()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
