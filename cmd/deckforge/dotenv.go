// ABOUTME: Loads DECKFORGE_* defaults from a .env file before the environment is parsed.
// ABOUTME: Variables already present in the process environment are never overwritten.
package main

import (
	"bufio"
	"os"
	"strings"
)

// loadDotEnv sets KEY=VALUE pairs from path that are not already in the environment.
// A missing file is ignored. Blank lines and # comments are skipped; an "export "
// prefix and one layer of matching single or double quotes are stripped.
func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := parseDotEnvLine(scanner.Text())
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}

// parseDotEnvLine splits one .env line. ok is false for blanks, comments, and lines without '='.
func parseDotEnvLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")

	key, value, ok = strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" {
		return "", "", false
	}
	if n := len(value); n >= 2 {
		if (value[0] == '"' && value[n-1] == '"') || (value[0] == '\'' && value[n-1] == '\'') {
			value = value[1 : n-1]
		}
	}
	return key, value, true
}
