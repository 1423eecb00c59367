// ABOUTME: Tests for the deckforge CLI: env defaults, flag handling, exit codes, and the written artifacts.
// ABOUTME: Each run writes into a temp directory and the .pptx is read back with pptx.Inspect.
package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/2389-research/deckforge/history"
	"github.com/2389-research/deckforge/pptx"
	"github.com/2389-research/deckforge/script"
	"github.com/oklog/ulid/v2"
)

var configKeys = []string{
	"DECKFORGE_OUTPUT", "DECKFORGE_THEME", "DECKFORGE_OUTLINE",
	"DECKFORGE_HANDOUT", "DECKFORGE_PREVIEW", "DECKFORGE_VERBOSE", "DECKFORGE_ADDR",
	"DECKFORGE_HISTORY",
}

func TestLoadConfigDefaults(t *testing.T) {
	unsetForTest(t, configKeys...)
	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Output != script.OutputName {
		t.Errorf("Output = %q, want %q", cfg.Output, script.OutputName)
	}
	if cfg.Addr != "127.0.0.1:2389" {
		t.Errorf("Addr = %q, want 127.0.0.1:2389", cfg.Addr)
	}
	if cfg.Theme != "" || cfg.Outline != "" || cfg.Handout != "" || cfg.Preview != "" || cfg.Verbose {
		t.Errorf("unexpected non-default config %+v", cfg)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	unsetForTest(t, configKeys...)
	t.Setenv("DECKFORGE_OUTPUT", "out/deck.pptx")
	t.Setenv("DECKFORGE_VERBOSE", "true")
	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Output != "out/deck.pptx" || !cfg.Verbose {
		t.Errorf("config = %+v", cfg)
	}
}

func TestLoadConfigRejectsBadBool(t *testing.T) {
	unsetForTest(t, configKeys...)
	t.Setenv("DECKFORGE_VERBOSE", "sometimes")
	if _, err := loadConfig(); err == nil {
		t.Error("expected an error for a non-boolean DECKFORGE_VERBOSE")
	}
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func inspectFile(t *testing.T, path string) *pptx.Summary {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	sum, err := pptx.Inspect(data)
	if err != nil {
		t.Fatalf("Inspect() = %v", err)
	}
	return sum
}

func TestExecuteWritesDeck(t *testing.T) {
	unsetForTest(t, configKeys...)
	out := filepath.Join(t.TempDir(), "deck.pptx")

	code, stdout, stderr := run(t, out)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	if !strings.Contains(stdout, "Presentation saved to: "+out) {
		t.Errorf("stdout = %q, want the saved path", stdout)
	}
	sum := inspectFile(t, out)
	if len(sum.Slides) != 25 {
		t.Errorf("slides = %d, want 25", len(sum.Slides))
	}
	if texts := sum.Slides[0].Texts(); len(texts) == 0 || texts[0] != script.DeckTitle {
		t.Errorf("first slide texts = %q", texts)
	}
}

func TestExecuteOutputFromEnv(t *testing.T) {
	unsetForTest(t, configKeys...)
	out := filepath.Join(t.TempDir(), "from-env.pptx")
	t.Setenv("DECKFORGE_OUTPUT", out)

	if code, _, stderr := run(t); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("expected %s to exist: %v", out, err)
	}
}

func TestExecuteExtras(t *testing.T) {
	unsetForTest(t, configKeys...)
	dir := t.TempDir()
	out := filepath.Join(dir, "deck.pptx")
	outline := filepath.Join(dir, "deck.md")
	handout := filepath.Join(dir, "deck.html")
	previews := filepath.Join(dir, "previews")

	code, stdout, stderr := run(t, "--outline", outline, "--handout", handout, "--preview", previews, out)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}

	md, err := os.ReadFile(outline)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(md), "# "+script.DeckTitle+"\n") {
		t.Errorf("outline starts with %q", strings.SplitN(string(md), "\n", 2)[0])
	}
	page, err := os.ReadFile(handout)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(page), "<!DOCTYPE html>") {
		t.Error("handout is not an HTML page")
	}
	for _, name := range []string{"slide-01.png", "slide-25.png"} {
		if _, err := os.Stat(filepath.Join(previews, name)); err != nil {
			t.Errorf("missing preview %s: %v", name, err)
		}
	}
	for _, p := range []string{outline, handout, previews} {
		if !strings.Contains(stdout, p) {
			t.Errorf("report does not mention %s", p)
		}
	}
}

func TestExecuteWithTheme(t *testing.T) {
	unsetForTest(t, configKeys...)
	dir := t.TempDir()
	themePath := filepath.Join(dir, "theme.yaml")
	if err := os.WriteFile(themePath, []byte("name: Night\npalette:\n  primary: \"#336699\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "deck.pptx")

	if code, _, stderr := run(t, "--theme", themePath, out); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	if len(inspectFile(t, out).Slides) != 25 {
		t.Error("themed deck should still have 25 slides")
	}
}

func TestExecuteFailures(t *testing.T) {
	dir := t.TempDir()
	badTheme := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badTheme, []byte("palette:\n  primary: teal\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		args []string
	}{
		{"missing directory", []string{filepath.Join(dir, "no-such-dir", "deck.pptx")}},
		{"too many arguments", []string{"a.pptx", "b.pptx"}},
		{"unknown flag", []string{"--bogus"}},
		{"missing theme", []string{"--theme", filepath.Join(dir, "absent.yaml"), filepath.Join(dir, "x.pptx")}},
		{"invalid theme", []string{"--theme", badTheme, filepath.Join(dir, "y.pptx")}},
		{"serve with arguments", []string{"serve", "extra"}},
		{"serve with invalid theme", []string{"serve", "--theme", badTheme}},
		{"serve on a bad address", []string{"serve", "--addr", "127.0.0.1:notaport"}},
		{"history without ledger", []string{"history"}},
		{"history with bad id", []string{"history", "--history", filepath.Join(dir, "h.db"), "not-a-ulid"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetForTest(t, configKeys...)
			code, _, stderr := run(t, tt.args...)
			if code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if !strings.Contains(stderr, "error:") {
				t.Errorf("stderr = %q, want an error line", stderr)
			}
		})
	}
	for _, name := range []string{"x.pptx", "y.pptx"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("%s should not be written when the theme fails", name)
		}
	}
}

func TestExecuteRecordsHistory(t *testing.T) {
	unsetForTest(t, configKeys...)
	dir := t.TempDir()
	ledgerPath := filepath.Join(dir, "history.db")
	out := filepath.Join(dir, "deck.pptx")
	t.Setenv("DECKFORGE_HISTORY", ledgerPath)

	for i := 0; i < 2; i++ {
		if code, _, stderr := run(t, out); code != 0 {
			t.Fatalf("run %d: exit code = %d, stderr = %s", i, code, stderr)
		}
	}

	ledger, err := history.OpenSqlite(ledgerPath)
	if err != nil {
		t.Fatal(err)
	}
	builds, err := ledger.List(0)
	_ = ledger.Close()
	if err != nil {
		t.Fatal(err)
	}
	if len(builds) != 2 {
		t.Fatalf("recorded %d builds, want 2", len(builds))
	}
	if builds[0].Digest != builds[1].Digest {
		t.Error("identical runs should record identical artifact digests")
	}
	if builds[0].Output != out || builds[0].Slides != 25 || builds[0].Notes != 24 {
		t.Errorf("build = %+v", builds[0])
	}

	code, stdout, stderr := run(t, "history")
	if code != 0 {
		t.Fatalf("history: exit code = %d, stderr = %s", code, stderr)
	}
	for _, b := range builds {
		if !strings.Contains(stdout, b.BuildID.String()) {
			t.Errorf("history listing is missing %s", b.BuildID)
		}
	}

	code, stdout, stderr = run(t, "history", builds[0].BuildID.String())
	if code != 0 {
		t.Fatalf("history <id>: exit code = %d, stderr = %s", code, stderr)
	}
	for _, want := range []string{script.DeckTitle, builds[0].Digest, "Key Takeaways", "two_column"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("build detail is missing %q", want)
		}
	}
}

func TestExecuteFailedExtraLeavesNoDeck(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing")
	tests := []struct {
		name string
		flag string
		path string
	}{
		{"outline", "--outline", filepath.Join(missing, "deck.md")},
		{"handout", "--handout", filepath.Join(missing, "deck.html")},
		{"history", "--history", filepath.Join(missing, "history.db")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetForTest(t, configKeys...)
			out := filepath.Join(dir, tt.name+".pptx")
			code, _, stderr := run(t, tt.flag, tt.path, out)
			if code != 1 {
				t.Fatalf("exit code = %d, want 1", code)
			}
			if !strings.Contains(stderr, "error:") {
				t.Errorf("stderr = %q, want an error line", stderr)
			}
			if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("%s should not exist after a failed run: %v", out, err)
			}
		})
	}
}

func TestExecuteVersion(t *testing.T) {
	unsetForTest(t, configKeys...)
	code, stdout, _ := run(t, "--version")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout, version) {
		t.Errorf("stdout = %q, want version %q", stdout, version)
	}
}

func TestRenderReport(t *testing.T) {
	got := renderReport(result{Output: "/tmp/deck.pptx", Slides: 25, Notes: 24, BuildID: "01HX", Extras: []string{"deck.md"}})
	for _, want := range []string{"Presentation saved to: /tmp/deck.pptx", "25", "24", "01HX", "deck.md"} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
}

func TestRenderServing(t *testing.T) {
	got := renderServing("127.0.0.1:2389", 25)
	if !strings.Contains(got, "http://127.0.0.1:2389") || !strings.Contains(got, "25") {
		t.Errorf("renderServing() = %q", got)
	}
}

func TestRenderHistory(t *testing.T) {
	id := ulid.Make()
	builds := []history.Build{
		{BuildID: id, Slides: 3, Digest: "abc", Output: "short.pptx"},
		{BuildID: id, Slides: 25, Digest: "0123456789abcdef0123", Output: "long.pptx"},
	}
	got := renderHistory(builds)
	for _, want := range []string{"3 slides  abc  short.pptx", "25 slides  0123456789ab  long.pptx"} {
		if !strings.Contains(got, want) {
			t.Errorf("listing missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "0123456789abc ") {
		t.Error("long digests should be abbreviated to 12 characters")
	}
	if empty := renderHistory(nil); !strings.Contains(empty, "no builds recorded") {
		t.Errorf("renderHistory(nil) = %q", empty)
	}
}

func TestRenderError(t *testing.T) {
	got := renderError(errors.New("disk full"))
	if !strings.Contains(got, "error:") || !strings.HasSuffix(got, "disk full") {
		t.Errorf("renderError() = %q", got)
	}
}
