package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runQuant runs the CLI in-process with no user config in reach
func runQuant(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("QUANT_CONFIG", "")
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"input and target", []string{"45 kPa", "torr"}, "337.508 torr\n"},
		{"si value", []string{"3 m * 4 m"}, "12 m^2\n"},
		{"query argument", []string{"60 mph > km/h"}, "96.5606 km/h\n"},
		{"eval flag", []string{"-e", "{0°C} > K"}, "273.15 K\n"},
		{"eval long flag", []string{"--eval", "1 h > min"}, "60 min\n"},
		{"dimensionless", []string{"3*(7-3)*2"}, "24\n"},
		{"small value", []string{"0.25 mm", "m"}, "0.00025 m\n"},
		{"fraction", []string{"1 min", "h"}, "0.0166667 h\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, code := runQuant(t, tt.args...)
			if code != 0 {
				t.Fatalf("exit code %d, stderr: %s", code, stderr)
			}
			if stdout != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, stdout)
			}
			if stderr != "" {
				t.Errorf("unexpected stderr: %q", stderr)
			}
		})
	}
}

func TestConvertWarning(t *testing.T) {
	stdout, stderr, code := runQuant(t, "mt/ks")
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if stdout != "0.001 kg*s^(-1)\n" {
		t.Errorf("unexpected stdout: %q", stdout)
	}
	if stderr != "Warning: prefix 'm' is unusual for unit 't' (increasing prefixes only)\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestConvertError(t *testing.T) {
	stdout, stderr, code := runQuant(t, "7m + 4s")
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if stdout != "" {
		t.Errorf("unexpected stdout: %q", stdout)
	}
	if stderr != "Error: cannot add or subtract 'm' and 's'\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestUsage(t *testing.T) {
	if _, _, code := runQuant(t, "1", "m", "ft"); code != 2 {
		t.Errorf("expected exit code 2 for too many arguments, got %d", code)
	}
	if _, _, code := runQuant(t, "--bogus"); code != 2 {
		t.Errorf("expected exit code 2 for unknown flag, got %d", code)
	}

	stdout, _, code := runQuant(t, "--version")
	if code != 0 || stdout != "quant version "+Version+"\n" {
		t.Errorf("unexpected version output %q (code %d)", stdout, code)
	}

	stdout, _, code = runQuant(t, "-h")
	if code != 0 || !strings.Contains(stdout, "quant run [--html] <script>") {
		t.Errorf("unexpected help output (code %d): %s", code, stdout)
	}
}

func TestConfigFile(t *testing.T) {
	units := writeFile(t, "units.yaml", `
units:
  - id: furlong
    name: furlong
    scale: 201.168
    dims: {m: 1}
    prefixes: none
`)
	cfg := writeFile(t, "quant.yaml", "format:\n  digits: 3\ncatalog:\n  files: ["+units+"]\n")

	stdout, stderr, code := runQuant(t, "-c", cfg, "45 kPa", "torr")
	if code != 0 || stdout != "338 torr\n" {
		t.Errorf("unexpected output %q (code %d, stderr %q)", stdout, code, stderr)
	}

	stdout, stderr, code = runQuant(t, "--config", cfg, "2 furlong", "m")
	if code != 0 || stdout != "402 m\n" {
		t.Errorf("unexpected output %q (code %d, stderr %q)", stdout, code, stderr)
	}

	_, stderr, code = runQuant(t, "-c", filepath.Join(t.TempDir(), "missing.yaml"), "1 m")
	if code != 1 || !strings.Contains(stderr, "config file not found") {
		t.Errorf("expected missing config error, got %q (code %d)", stderr, code)
	}
}

const tripScript = `// average speed
d = 2 km
t = 30 min
convert(d/t, "km/h")
`

func TestRunCommand(t *testing.T) {
	script := writeFile(t, "trip.qm", tripScript)

	stdout, stderr, code := runQuant(t, "run", script)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	if stdout != "d/t = 4 km/h\n" {
		t.Errorf("unexpected stdout: %q", stdout)
	}
	if stderr != "macro finished (3 statement(s))\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestRunCommandHTML(t *testing.T) {
	script := writeFile(t, "trip.qm", tripScript)

	stdout, stderr, code := runQuant(t, "run", "--html", script)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	for _, want := range []string{"<h1>trip.qm</h1>", "<table>", "<td>d/t = 4 km/h</td>", "<td>macro finished (3 statement(s))</td>"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in:\n%s", want, stdout)
		}
	}
}

func TestRunCommandErrors(t *testing.T) {
	script := writeFile(t, "bad.qm", "write(\"start\")\nx = 7m + 4s\n")

	stdout, stderr, code := runQuant(t, "run", script)
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if stdout != "start\n" {
		t.Errorf("unexpected stdout: %q", stdout)
	}
	if stderr != "Error: line 2: cannot add or subtract 'm' and 's'\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}

	stdout, _, code = runQuant(t, "run", "--html", script)
	if code != 1 {
		t.Errorf("expected exit code 1 for --html, got %d", code)
	}
	for _, want := range []string{"<td>start</td>", "<td>Error: line 2: cannot add or subtract"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in:\n%s", want, stdout)
		}
	}

	if _, _, code := runQuant(t, "run"); code != 2 {
		t.Errorf("expected exit code 2 without a script, got %d", code)
	}
	if _, stderr, code := runQuant(t, "run", filepath.Join(t.TempDir(), "none.qm")); code != 1 ||
		!strings.Contains(stderr, "failed to read script") {
		t.Errorf("expected read error, got %q (code %d)", stderr, code)
	}
}

func TestUnitsCommand(t *testing.T) {
	stdout, stderr, code := runQuant(t, "units", "km/h")
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 units, got:\n%s", stdout)
	}
	if !strings.HasPrefix(lines[0], "kn ") || !strings.HasSuffix(lines[0], "m*s^(-1)") {
		t.Errorf("unexpected line: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "mph ") {
		t.Errorf("unexpected line: %q", lines[1])
	}

	stdout, _, _ = runQuant(t, "units", "mol/L")
	if !strings.Contains(stdout, "{pH}") {
		t.Errorf("expected pH as a unit function, got:\n%s", stdout)
	}

	_, stderr, code = runQuant(t, "units", "m*kg")
	if code != 1 || stderr != "Error: no catalog unit has dimension 'm*kg'\n" {
		t.Errorf("unexpected error %q (code %d)", stderr, code)
	}
}
