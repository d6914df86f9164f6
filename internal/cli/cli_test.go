// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at a temp dir and clears the variables config reads.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{
		"OLLAMA_HOST", "RIGCHAT_OLLAMA_URL", "RIGCHAT_GENERATION_TIMEOUT",
		"RIGCHAT_CATALOG_ON_ERROR", "RIGCHAT_LOG_LEVEL", "RIGCHAT_LOG_FILE",
	} {
		t.Setenv(k, "")
	}
	return home
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func tagsServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rigchat "+Version)
}

func TestConfigPath(t *testing.T) {
	home := isolate(t)

	out, err := run(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".rigchat", "config.toml")+"\n", out)

	custom := filepath.Join(t.TempDir(), "alt.toml")
	out, err = run(t, "config", "path", "--config", custom)
	require.NoError(t, err)
	assert.Equal(t, custom+"\n", out)
}

func TestConfigInitAndShow(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := run(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = run(t, "config", "init", "--config", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = run(t, "config", "init", "--config", path, "--force")
	assert.NoError(t, err)

	out, err = run(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, `url = "http://127.0.0.1:11434"`)
	assert.Contains(t, out, `timeout = "10m0s"`)
}

func TestConfigShow_OllamaURLFlag(t *testing.T) {
	isolate(t)

	out, err := run(t, "config", "show", "--ollama-url", "gpu-box")
	require.NoError(t, err)
	assert.Contains(t, out, `url = "http://gpu-box:11434"`)

	_, err = run(t, "config", "show", "--ollama-url", "ftp://gpu-box")
	assert.ErrorContains(t, err, "invalid --ollama-url")
}

func TestModels(t *testing.T) {
	isolate(t)
	srv := tagsServer(t, `{"models":[
		{"name":"mistral","size":4100000000},
		{"name":"llama3","size":4700000000}
	]}`)

	out, err := run(t, "models", "--ollama-url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "4.7 GB")
	assert.Less(t, bytes.Index([]byte(out), []byte("llama3")), bytes.Index([]byte(out), []byte("mistral")))
}

func TestModels_Empty(t *testing.T) {
	isolate(t)
	srv := tagsServer(t, `{"models":[]}`)

	out, err := run(t, "models", "--ollama-url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "No models installed")
}

func TestModels_Unreachable(t *testing.T) {
	isolate(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := run(t, "models", "--ollama-url", url)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is Ollama running at "+url)
}

func TestRoot_RequiresTerminal(t *testing.T) {
	isolate(t)
	if isTerminal() {
		t.Skip("running attached to a terminal")
	}

	_, err := run(t)
	assert.ErrorIs(t, err, ErrNotTerminal)
}

func TestRoot_RejectsArgs(t *testing.T) {
	_, err := run(t, "hello")
	assert.Error(t, err)
}
