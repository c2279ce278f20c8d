// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(t *testing.T) string
		wantNames []string
		wantKey   string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, OpenAIKeyFile, "  sk_abc123  \n")
				writeFile(t, dir, "admin-api-token", "tk_xyz789")
				return dir
			},
			wantNames: []string{"admin-api-token", OpenAIKeyFile},
			wantKey:   "sk_abc123",
		},
		{
			name: "returns empty store for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			wantNames: []string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, OpenAIKeyFile, "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			wantNames: []string{OpenAIKeyFile},
			wantKey:   "valid-key",
		},
		{
			name: "skips dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, OpenAIKeyFile, "sk_real")
				return dir
			},
			wantNames: []string{OpenAIKeyFile},
			wantKey:   "sk_real",
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, OpenAIKeyFile, "sk_123")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			wantNames: []string{OpenAIKeyFile},
			wantKey:   "sk_123",
		},
		{
			name: "returns empty store for empty directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			wantNames: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			store, err := Load(dir)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNames, store.Names())
			assert.Equal(t, len(tt.wantNames), store.Len())
			assert.Equal(t, tt.wantKey, store.OpenAIKey())
		})
	}
}

func TestGetMissingSecret(t *testing.T) {
	store, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "", store.Get("no-such-key"))
	assert.Equal(t, "", store.OpenAIKey())
}

func TestLoadUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, OpenAIKeyFile, "value123")

	// Create a file then remove read permission.
	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	store, err := Load(dir)
	require.NoError(t, err)
	// The good file should still be returned; the bad file is skipped with a warning.
	assert.Equal(t, "value123", store.OpenAIKey())
	assert.Equal(t, "", store.Get("bad-key"))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
