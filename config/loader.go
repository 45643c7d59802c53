package config

import (
	"fmt"
	"os"
	"strings"
)

// DefaultEnvFile is resolved against the working directory.
const DefaultEnvFile = ".env"

// Entry is a single KEY=VALUE pair read from an env file.
type Entry struct {
	Key   string
	Value string
}

// LoadResult reports what LoadFile did to the process environment.
type LoadResult struct {
	Path    string
	Loaded  bool
	Applied []string // keys written to the environment, in file order
	Skipped []string // keys already present in the inherited environment
}

// ParseFile extracts entries from env file content.
// Blank lines, '#' comments and lines without '=' are dropped silently.
func ParseFile(content string) []Entry {
	var entries []Entry

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		idx := strings.Index(trimmed, "=")
		if idx == -1 {
			continue
		}

		key := strings.TrimSpace(trimmed[:idx])
		if key == "" {
			continue
		}

		entries = append(entries, Entry{
			Key:   key,
			Value: unquote(strings.TrimSpace(trimmed[idx+1:])),
		})
	}

	return entries
}

// unquote strips one leading and one trailing double quote, each independently.
func unquote(v string) string {
	v = strings.TrimPrefix(v, `"`)
	return strings.TrimSuffix(v, `"`)
}

// LoadFile supplements the process environment with the entries of the file at path.
// Keys that are already set, even to an empty string, are never replaced.
// A missing file is not an error.
func LoadFile(path string) (LoadResult, error) {
	res := LoadResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return res, nil
		}
		return res, fmt.Errorf("config: failed to read env file %s: %w", path, err)
	}
	res.Loaded = true

	for _, e := range ParseFile(string(data)) {
		if _, ok := os.LookupEnv(e.Key); ok {
			res.Skipped = append(res.Skipped, e.Key)
			continue
		}
		if err := os.Setenv(e.Key, e.Value); err != nil {
			return res, fmt.Errorf("config: failed to set %s: %w", e.Key, err)
		}
		res.Applied = append(res.Applied, e.Key)
	}

	return res, nil
}
