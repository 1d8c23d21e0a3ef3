package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI runs the command line with an isolated config file and captures stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, int) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), ".color-picker-mcp")
	if err := os.WriteFile(cfgPath, nil, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	args = append([]string{"--config", cfgPath, "--log-level", "error"}, args...)

	var out bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &out)
	return out.String(), code
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestName(t *testing.T) {
	out, code := runCLI(t, "", "name", "250", "10", "5")
	if code != 0 {
		t.Fatalf("exit code: got %d, want 0", code)
	}
	if out != "Red #ff0000 distance 20\n" {
		t.Errorf("got %q", out)
	}
}

func TestName_BadArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"too few", []string{"name", "1", "2"}},
		{"not a number", []string{"name", "1", "x", "3"}},
		{"out of range", []string{"name", "1", "2", "256"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, code := runCLI(t, "", tt.args...); code == 0 {
				t.Error("expected a non-zero exit code")
			}
		})
	}
}

func TestPalette_BuiltIn(t *testing.T) {
	out, code := runCLI(t, "", "palette")
	if code != 0 {
		t.Fatalf("exit code: got %d, want 0", code)
	}
	if out != "built-in: 141 colors\n" {
		t.Errorf("got %q", out)
	}
}

func TestPalette_FromFile(t *testing.T) {
	path := writeFile(t, "colors.csv", "red,Red,#ff0000,255,0,0\nblue,Blue,#0000ff,0,0,255\n")

	out, code := runCLI(t, "", "--palette", path, "palette", "--list")
	if code != 0 {
		t.Fatalf("exit code: got %d, want 0", code)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if lines[0] != path+": 2 colors" {
		t.Errorf("header: got %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "Blue") {
		t.Errorf("last entry: got %q", lines[2])
	}
}

func TestPalette_ConfigErrorExitCode(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"bad channel", func(t *testing.T) string {
			return writeFile(t, "bad.csv", "red,Red,#ff0000,255,0,300\n")
		}},
		{"missing file", func(t *testing.T) string {
			return filepath.Join(t.TempDir(), "absent.csv")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, code := runCLI(t, "", "--palette", tt.path(t), "palette"); code != 2 {
				t.Errorf("exit code: got %d, want 2", code)
			}
		})
	}
}

func TestInvalidConfigExitCode(t *testing.T) {
	if _, code := runCLI(t, "", "--clusters", "0", "palette"); code != 2 {
		t.Errorf("exit code: got %d, want 2", code)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, ".color-picker-mcp")
	palettePath := writeFile(t, "one.csv", "black,Black,#000000,0,0,0\n")
	content := "palette = '" + palettePath + "'\nlog-level = 'error'\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var out bytes.Buffer
	code := run(context.Background(), []string{"--config", cfgPath, "name", "200", "200", "200"}, strings.NewReader(""), &out)
	if code != 0 {
		t.Fatalf("exit code: got %d, want 0", code)
	}
	if !strings.HasPrefix(out.String(), "Black ") {
		t.Errorf("got %q, want the one-color palette to answer", out.String())
	}
}

func TestDumpConfig(t *testing.T) {
	out, code := runCLI(t, "", "--clusters", "7", "--dump-config")
	if code != 0 {
		t.Fatalf("exit code: got %d, want 0", code)
	}
	if !strings.Contains(out, "clusters: 7") {
		t.Errorf("dump should contain clusters: 7, got:\n%s", out)
	}
}

func TestServe(t *testing.T) {
	in := `{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\n"

	out, code := runCLI(t, in)
	if code != 0 {
		t.Fatalf("exit code: got %d, want 0", code)
	}
	if !strings.Contains(out, `"id":1`) {
		t.Errorf("expected a ping response, got %q", out)
	}
}

func TestMissingConfigFileExitCode(t *testing.T) {
	var out bytes.Buffer
	args := []string{"--config", filepath.Join(t.TempDir(), ".absent"), "--log-level", "error", "palette"}
	if code := run(context.Background(), args, strings.NewReader(""), &out); code != 2 {
		t.Errorf("exit code: got %d, want 2", code)
	}
}
