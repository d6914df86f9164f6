// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads KEY=VALUE pairs from the given .env files into the
// process environment. Missing files are skipped and variables that are
// already set win.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported variables:
//   - OLLAMA_HOST: host[:port] or URL of the Ollama server (same as the ollama CLI)
//   - RIGCHAT_OLLAMA_URL: overrides ollama.url (wins over OLLAMA_HOST)
//   - RIGCHAT_GENERATION_TIMEOUT: overrides generation.timeout
//   - RIGCHAT_CATALOG_ON_ERROR: overrides catalog.on_error
//   - RIGCHAT_LOG_LEVEL: overrides log.level
//   - RIGCHAT_LOG_FILE: overrides log.file
//   - NO_COLOR: any value sets ui.no_color
func (c *Config) ApplyEnvOverrides() {
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		c.Ollama.URL = HostToURL(host)
	}
	if u := os.Getenv("RIGCHAT_OLLAMA_URL"); u != "" {
		c.Ollama.URL = u
	}

	if v := os.Getenv("RIGCHAT_GENERATION_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Generation.Timeout = D(d)
		}
	}

	if v := os.Getenv("RIGCHAT_CATALOG_ON_ERROR"); v != "" {
		c.Catalog.OnError = v
	}

	if v := os.Getenv("RIGCHAT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("RIGCHAT_LOG_FILE"); v != "" {
		c.Log.File = v
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		c.UI.NoColor = true
	}
}

// HostToURL turns an OLLAMA_HOST value into a base URL.
// "0.0.0.0" and an empty host mean the local machine.
func HostToURL(host string) string {
	host = strings.TrimSpace(host)
	scheme := "http"
	if i := strings.Index(host, "://"); i >= 0 {
		scheme, host = host[:i], host[i+3:]
	}
	host = strings.TrimRight(host, "/")

	h, port, err := net.SplitHostPort(host)
	if err != nil {
		h, port = host, "11434"
	}
	if h == "" || h == "0.0.0.0" {
		h = "127.0.0.1"
	}
	return scheme + "://" + net.JoinHostPort(h, port)
}
