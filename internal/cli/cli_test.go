package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxtree/pkg/document"
)

const rowDoc = `{
  "root": {
    "id": "row",
    "style": {"height": "50"},
    "children": [
      {"id": "a", "style": {"flex_grow": 1}},
      {"id": "b", "style": {"flex_grow": 1}}
    ]
  }
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, log.InfoLevel)
	c.SetOutput(&out)
	root := c.RootCommand()
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("loadConfig(missing) error: %v", err)
	}
	if cfg.Width != "" || cfg.Rounding != nil {
		t.Errorf("loadConfig(missing) = %+v, want zero", cfg)
	}

	path := writeFile(t, "config.toml", `
width = "640"
rounding = false
cache_ttl = "36h"
listen = ":9000"
`)
	cfg, err = loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Width != "640" {
		t.Errorf("Width = %q, want %q", cfg.Width, "640")
	}
	if cfg.Rounding == nil || *cfg.Rounding {
		t.Errorf("Rounding = %v, want false", cfg.Rounding)
	}
	if cfg.CacheTTL.Duration != 36*time.Hour {
		t.Errorf("CacheTTL = %v, want %v", cfg.CacheTTL.Duration, 36*time.Hour)
	}
	if cfg.Listen != ":9000" {
		t.Errorf("Listen = %q, want %q", cfg.Listen, ":9000")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", `colour = "red"`, "unknown keys colour"},
		{"bad duration", `cache_ttl = "soon"`, "cache_ttl"},
		{"bad toml", `width = `, "config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeFile(t, "config.toml", tt.content))
			if err == nil {
				t.Fatal("loadConfig() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("loadConfig() error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_CACHE_HOME", "/xdg/cache")

	if got, _ := configPath(); got != filepath.Join("/xdg/config", appName, "config.toml") {
		t.Errorf("configPath() = %q", got)
	}
	if got, _ := cacheDir(); got != filepath.Join("/xdg/cache", appName) {
		t.Errorf("cacheDir() = %q", got)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if !strings.HasSuffix(dir, filepath.Join(".cache", appName)) {
		t.Errorf("cacheDir() = %q, want suffix .cache/%s", dir, appName)
	}
}

func TestOptions(t *testing.T) {
	off := false
	c := &CLI{config: Config{Width: "300", Height: "80", Rounding: &off}}

	tests := []struct {
		name  string
		doc   document.Document
		flags docFlags
		want  document.Options
	}{
		{"config fills gaps", document.Document{}, docFlags{}, document.Options{Width: "300", Height: "80", NoRound: true}},
		{"document wins over config", document.Document{Width: "100"}, docFlags{}, document.Options{Height: "80", NoRound: true}},
		{"flags win", document.Document{Width: "100"}, docFlags{width: "500", height: "10"}, document.Options{Width: "500", Height: "10", NoRound: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.options(&tt.doc, tt.flags); got != tt.want {
				t.Errorf("options() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLayoutCommand(t *testing.T) {
	doc := writeFile(t, "row.json", rowDoc)
	cfg := writeFile(t, "config.toml", `width = "300"`)

	tests := []struct {
		name  string
		args  []string
		wantX float32
	}{
		{"config width", []string{"--config", cfg, "layout", "--no-cache", doc}, 150},
		{"flag width", []string{"--config", cfg, "layout", "--no-cache", "--width", "400", doc}, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("layout error: %v", err)
			}
			root, err := document.ReadJSON(strings.NewReader(out))
			if err != nil {
				t.Fatalf("ReadJSON() error: %v", err)
			}
			if len(root.Children) != 2 {
				t.Fatalf("children = %d, want 2", len(root.Children))
			}
			if got := root.Children[1].Absolute.X; got != tt.wantX {
				t.Errorf("b.x = %v, want %v", got, tt.wantX)
			}
		})
	}
}

func TestLayoutCommandOutputFile(t *testing.T) {
	doc := writeFile(t, "row.json", rowDoc)
	dest := filepath.Join(t.TempDir(), "out.json")

	out, err := execute(t, "--config", "", "layout", "--no-cache", "--width", "100", "-o", dest, doc)
	if err != nil {
		t.Fatalf("layout error: %v", err)
	}
	if !strings.Contains(out, dest) {
		t.Errorf("output = %q, want it to name %q", out, dest)
	}
	f, err := os.Open(dest)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	root, err := document.ReadJSON(f)
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if root.Layout.Size.Width != 100 {
		t.Errorf("root width = %v, want 100", root.Layout.Size.Width)
	}
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{"missing document", []string{"--config", "", "layout", filepath.Join(dir, "nope.json")}},
		{"bad width", []string{"--config", "", "print", "--width", "wide", writeFile(t, "row.json", rowDoc)}},
		{"bad format", []string{"--config", "", "svg", "--format", "gif", writeFile(t, "row.json", rowDoc)}},
		{"no argument", []string{"--config", "", "dot"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("execute() error = nil, want error")
			}
		})
	}
}

func TestPrintCommand(t *testing.T) {
	out, err := execute(t, "--config", "", "print", "--width", "200", writeFile(t, "row.json", rowDoc))
	if err != nil {
		t.Fatalf("print error: %v", err)
	}
	if got := strings.Count(out, "\n"); got != 4 {
		t.Errorf("print lines = %d, want 4\n%s", got, out)
	}
}

func TestDotCommand(t *testing.T) {
	out, err := execute(t, "--config", "", "dot", "--detailed", "--width", "200", writeFile(t, "row.json", rowDoc))
	if err != nil {
		t.Fatalf("dot error: %v", err)
	}
	for _, want := range []string{"digraph G {", `label="a\nat 0,0\n100×50"`, `label="b\nat 100,0\n100×50"`} {
		if !strings.Contains(out, want) {
			t.Errorf("dot output missing %q\n%s", want, out)
		}
	}
	if got := strings.Count(out, "->"); got != 2 {
		t.Errorf("edges = %d, want 2", got)
	}
}

func TestSVGCommand(t *testing.T) {
	out, err := execute(t, "--config", "", "svg", "--no-cache", "--labels", "--width", "200", writeFile(t, "row.json", rowDoc))
	if err != nil {
		t.Fatalf("svg error: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(out), "<svg") {
		t.Errorf("svg output does not start with <svg: %.40q", out)
	}
	if !strings.Contains(out, ">row<") {
		t.Errorf("svg output missing label for row")
	}
}

func TestCacheCommands(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir, _ := cacheDir()

	out, err := execute(t, "--config", "", "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), dir)
	}

	doc := writeFile(t, "row.json", rowDoc)
	if _, err := execute(t, "--config", "", "layout", doc); err != nil {
		t.Fatalf("layout error: %v", err)
	}
	out, err = execute(t, "--config", "", "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("cache clear output = %q", out)
	}
}

func TestSetVerbose(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	c.SetVerbose(true)
	if got := c.Logger.GetLevel(); got != LogDebug {
		t.Errorf("level = %v, want %v", got, LogDebug)
	}
	c.SetVerbose(false)
	if got := c.Logger.GetLevel(); got != LogInfo {
		t.Errorf("level = %v, want %v", got, LogInfo)
	}
}
