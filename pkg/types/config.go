// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the configuration and record types shared across the
// resume-builder service.
package types

import "time"

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":5000").
	Addr string `json:"addr" yaml:"addr"`

	// ClientURL is the browser origin allowed by CORS
	// (e.g. "http://localhost:5173").
	ClientURL string `json:"client_url" yaml:"client_url"`

	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// AuthConfig holds settings for token issuance and verification.
type AuthConfig struct {
	// JWTSecret signs and verifies HS256 tokens. Loaded from
	// .secrets/jwt-secret when empty.
	JWTSecret string `json:"jwt_secret,omitempty" yaml:"jwt_secret,omitempty"`

	// TokenTTL is the token lifetime (default 7 days).
	TokenTTL time.Duration `json:"token_ttl" yaml:"token_ttl"`
}

// StorageConfig holds settings for the SQLite store.
type StorageConfig struct {
	// Path is the database file location (e.g. "data/resume-builder.db").
	Path string `json:"path" yaml:"path"`
}

// ConvertConfig holds settings for the document conversion pipeline.
type ConvertConfig struct {
	// WorkDir is the base directory for per-request workspaces. Empty means
	// the system temp directory.
	WorkDir string `json:"work_dir" yaml:"work_dir"`

	// MaxUploadBytes caps the accepted upload size (default 10 MiB).
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes"`

	// Timeout bounds one external converter invocation (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// Default configuration values. The converter timeout and upload cap are
// deployment parameters; these are conservative defaults.
const (
	DefaultAddr            = ":5000"
	DefaultClientURL       = "http://localhost:5173"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultTokenTTL        = 7 * 24 * time.Hour
	DefaultStoragePath     = "data/resume-builder.db"
	DefaultMaxUploadBytes  = 10 << 20
	DefaultConvertTimeout  = 60 * time.Second
)

// AppConfig groups all service configuration.
type AppConfig struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Auth    AuthConfig    `json:"auth" yaml:"auth"`
	Storage StorageConfig `json:"storage" yaml:"storage"`
	Convert ConvertConfig `json:"convert" yaml:"convert"`
}

// WithDefaults returns a copy of c with zero-valued fields replaced by the
// package defaults.
func (c AppConfig) WithDefaults() AppConfig {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ClientURL == "" {
		c.Server.ClientURL = DefaultClientURL
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = DefaultTokenTTL
	}
	if c.Storage.Path == "" {
		c.Storage.Path = DefaultStoragePath
	}
	if c.Convert.MaxUploadBytes <= 0 {
		c.Convert.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.Convert.Timeout <= 0 {
		c.Convert.Timeout = DefaultConvertTimeout
	}
	return c
}
