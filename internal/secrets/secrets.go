// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads platform credentials from a directory of
// plain-text files. Each file is one secret: the filename is the key
// name and the trimmed contents are the value. The platform's only
// required credential is the OpenAI API key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// OpenAIKeyFile is the filename holding the OpenAI API key.
const OpenAIKeyFile = "openai-api-key"

// Store holds the credentials loaded at startup.
type Store struct {
	values map[string]string
}

// Load reads all files in dir into a Store. A missing directory is not
// an error; Load returns an empty store. Unreadable files produce a
// warning on stderr but do not abort.
func Load(dir string) (Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Store{values: map[string]string{}}, nil
		}
		return Store{}, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	values := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			values[name] = value
		}
	}

	return Store{values: values}, nil
}

// OpenAIKey returns the OpenAI API key, or "" if the key file is
// absent. Callers fall back to config and environment sources.
func (s Store) OpenAIKey() string {
	return s.values[OpenAIKeyFile]
}

// Get returns the named secret, or "".
func (s Store) Get(name string) string {
	return s.values[name]
}

// Names returns the loaded key names, sorted, for startup logging.
// Values are never exposed this way.
func (s Store) Names() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of loaded secrets.
func (s Store) Len() int {
	return len(s.values)
}
