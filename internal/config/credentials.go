package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultKeyFile is the conventional location of the Seeweb credential
// file. Format: one "key = value" pair per line, "#" starts a comment.
const DefaultKeyFile = "~/.seeweb_cloud/seeweb_keys"

const apiKeyEnvVar = "SEEWEB_API_KEY"

// APIToken resolves the Seeweb API token. The SEEWEB_API_KEY environment
// variable wins; otherwise the credential file at path (DefaultKeyFile when
// empty) is parsed for an api_key entry.
func APIToken(path string) (string, error) {
	if token := os.Getenv(apiKeyEnvVar); token != "" {
		return token, nil
	}

	if path == "" {
		path = DefaultKeyFile
	}
	expanded, err := expandHome(path)
	if err != nil {
		return "", err
	}

	token, err := parseKeyFile(expanded)
	if err != nil {
		return "", err
	}
	return token, nil
}

func parseKeyFile(path string) (string, error) {
	// #nosec G304
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open credential file: %w", err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if strings.TrimSpace(key) == "api_key" {
			token := strings.TrimSpace(value)
			if token == "" {
				return "", fmt.Errorf("credential file %s: api_key is empty", path)
			}
			return token, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read credential file: %w", err)
	}
	return "", fmt.Errorf("credential file %s: no api_key entry", path)
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
