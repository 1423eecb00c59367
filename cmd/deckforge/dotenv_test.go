// ABOUTME: Tests for the .env loader: line parsing rules and the no-clobber guarantee.
// ABOUTME: Variables set by a test are restored through t.Setenv before being unset.
package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseDotEnvLine(t *testing.T) {
	tests := []struct {
		line      string
		key, val  string
		wantParse bool
	}{
		{"DECKFORGE_OUTPUT=deck.pptx", "DECKFORGE_OUTPUT", "deck.pptx", true},
		{"  KEY = spaced  ", "KEY", "spaced", true},
		{`KEY="double quoted"`, "KEY", "double quoted", true},
		{`KEY='single quoted'`, "KEY", "single quoted", true},
		{`KEY="mismatched'`, "KEY", `"mismatched'`, true},
		{"export KEY=exported", "KEY", "exported", true},
		{"KEY=a=b=c", "KEY", "a=b=c", true},
		{"KEY=", "KEY", "", true},
		{"", "", "", false},
		{"   ", "", "", false},
		{"# comment=value", "", "", false},
		{"NOEQUALS", "", "", false},
		{"=value", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			key, val, ok := parseDotEnvLine(tt.line)
			if ok != tt.wantParse || key != tt.key || val != tt.val {
				t.Errorf("parseDotEnvLine(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.line, key, val, ok, tt.key, tt.val, tt.wantParse)
			}
		})
	}
}

func unsetForTest(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# deckforge defaults\n\nDECKFORGE_TEST_THEME=brand.yaml\nexport DECKFORGE_TEST_VERBOSE=\"true\"\nDECKFORGE_TEST_KEPT=from_file\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	unsetForTest(t, "DECKFORGE_TEST_THEME", "DECKFORGE_TEST_VERBOSE")
	t.Setenv("DECKFORGE_TEST_KEPT", "from_env")

	loadDotEnv(path)

	want := map[string]string{
		"DECKFORGE_TEST_THEME":   "brand.yaml",
		"DECKFORGE_TEST_VERBOSE": "true",
		"DECKFORGE_TEST_KEPT":    "from_env",
	}
	for k, v := range want {
		if got := os.Getenv(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	loadDotEnv(filepath.Join(t.TempDir(), "absent.env"))
}
