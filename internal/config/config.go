// Package config provides configuration management for Atlas.
// Everything is read once from the environment at process start.
package config

import (
	"crypto/rand"
	"encoding/base64"
	"os"
	"strconv"
	"strings"
)

// Module keys accepted in the MODULES allow-list. Each key gates one entity
// group on the router; an empty allow-list enables everything.
const (
	ModuleProjects          = "projects"
	ModuleTasks             = "tasks"
	ModuleTime              = "time"
	ModuleProducts          = "products"
	ModuleCustomers         = "customers"
	ModuleVendors           = "vendors"
	ModuleSales             = "sales"
	ModuleSalesLines        = "sales_lines"
	ModulePurchases         = "purchases"
	ModulePurchaseLines     = "purchase_lines"
	ModuleInvoices          = "invoices"
	ModuleInvoiceLines      = "invoice_lines"
	ModuleExpenses          = "expenses"
	ModuleAnalytics         = "analytics"
	ModuleAggregatedMetrics = "aggregated_metrics"
)

// ModuleSet is the startup allow-list of enabled entity groups
type ModuleSet map[string]struct{}

// ParseModules builds a ModuleSet from a comma-separated key list.
// An empty value means every module is enabled.
func ParseModules(raw string) ModuleSet {
	set := make(ModuleSet)
	for _, part := range strings.Split(raw, ",") {
		key := strings.TrimSpace(part)
		if key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

// Enabled reports whether a module key is in the allow-list.
// An empty set enables everything.
func (m ModuleSet) Enabled(key string) bool {
	if len(m) == 0 {
		return true
	}
	_, ok := m[key]
	return ok
}

// Config holds the runtime configuration
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Database DatabaseConfig
	Modules  ModuleSet
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port         string
	Debug        bool
	AllowedHosts []string
}

// AuthConfig holds authentication settings
type AuthConfig struct {
	SecretKey       string
	SessionTTLHours int
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Driver   string // postgres, mysql, sqlite
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Load reads configuration from the environment once
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8090"),
			Debug:        getBool("DEBUG", true),
			AllowedHosts: splitString(os.Getenv("ALLOWED_HOSTS")),
		},
		Auth: AuthConfig{
			SecretKey:       getEnv("SECRET_KEY", ""),
			SessionTTLHours: getInt("SESSION_TTL_HOURS", 24*14),
		},
		CORS: CORSConfig{
			AllowedOrigins:   splitString(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8080")),
			AllowCredentials: getBool("CORS_ALLOW_CREDENTIALS", true),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "atlas"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Modules: ParseModules(os.Getenv("MODULES")),
	}
}

// GenerateSecretKey generates a secure random secret
func GenerateSecretKey() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "atlas-fallback-secret-change-me"
	}
	return base64.URLEncoding.EncodeToString(bytes)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v == "1" || v == "true" || v == "yes"
}

// splitString splits a comma-separated string into a slice
func splitString(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
