package cmdline

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// testEnv returns settings with a fixed environment and unknown-argument
// tolerance enabled, so tests never depend on the real process env.
func testEnv(env map[string]string) Settings {
	s := DefaultSettings()
	s.LookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	return s
}

func TestParseAllShapes(t *testing.T) {
	type options struct {
		Name    string        `flag:"name" short:"n"`
		Port    int           `flag:"port"`
		Ratio   float64       `flag:"ratio"`
		Verbose bool          `flag:"verbose" short:"v"`
		Timeout time.Duration `flag:"timeout"`
		Tags    []string      `flag:"tags"`
		Ports   []int         `flag:"ports"`
		Level   string        `flag:"level" enum:"debug,info,warn,error"`
	}

	res := ParseWith[options]([]string{
		"--name", "go-cmdline",
		"--port", "0xFF",
		"--ratio", "3.14",
		"--verbose",
		"--timeout", "1h30m",
		"--tags=dev;test;prod",
		"--ports", "80", "443", "8080",
		"--level", "debug",
	}, testEnv(nil))

	if !res.Ok() {
		t.Fatalf("parse failed: %s", res.ErrorMessage())
	}

	want := options{
		Name:    "go-cmdline",
		Port:    255,
		Ratio:   3.14,
		Verbose: true,
		Timeout: 90 * time.Minute,
		Tags:    []string{"dev", "test", "prod"},
		Ports:   []int{80, 443, 8080},
		Level:   "debug",
	}
	if diff := cmp.Diff(want, *res.Value); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBooleanForms(t *testing.T) {
	type options struct {
		Verbose bool   `flag:"verbose"`
		Extra   string `index:"0"`
	}

	tests := []struct {
		name        string
		args        []string
		wantVerbose bool
		wantExtra   string
	}{
		{name: "bare presence", args: []string{"--verbose"}, wantVerbose: true},
		{name: "inline true", args: []string{"--verbose=true"}, wantVerbose: true},
		{name: "inline false", args: []string{"--verbose=false"}, wantVerbose: false},
		{name: "following true", args: []string{"--verbose", "true"}, wantVerbose: true},
		{name: "following false", args: []string{"--verbose", "false"}, wantVerbose: false},
		{name: "following true uppercase", args: []string{"--verbose", "TRUE"}, wantVerbose: true},
		{
			// A following token that is not exactly true/false stays
			// available for the next binding.
			name:        "following non-boolean is positional",
			args:        []string{"--verbose", "output.txt"},
			wantVerbose: true,
			wantExtra:   "output.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseWith[options](tt.args, testEnv(nil))
			if !res.Ok() {
				t.Fatalf("parse failed: %s", res.ErrorMessage())
			}
			if res.Value.Verbose != tt.wantVerbose {
				t.Errorf("Verbose = %v, want %v", res.Value.Verbose, tt.wantVerbose)
			}
			if res.Value.Extra != tt.wantExtra {
				t.Errorf("Extra = %q, want %q", res.Value.Extra, tt.wantExtra)
			}
		})
	}
}

func TestParseArrayForms(t *testing.T) {
	type options struct {
		Tags []string `flag:"tags"`
	}

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "inline separator form", args: []string{"--tags=dev;test;prod"}, want: []string{"dev", "test", "prod"}},
		{name: "space form", args: []string{"--tags", "tag1", "tag2", "tag3"}, want: []string{"tag1", "tag2", "tag3"}},
		{name: "repeated option accumulates", args: []string{"--tags=a;b", "--tags=c"}, want: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseWith[options](tt.args, testEnv(nil))
			if !res.Ok() {
				t.Fatalf("parse failed: %s", res.ErrorMessage())
			}
			if diff := cmp.Diff(tt.want, res.Value.Tags); diff != "" {
				t.Errorf("Tags mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseArrayCustomSeparator(t *testing.T) {
	type options struct {
		Hosts []string `flag:"hosts" sep:","`
	}

	res := ParseWith[options]([]string{"--hosts=a,b,c"}, testEnv(nil))
	if !res.Ok() {
		t.Fatalf("parse failed: %s", res.ErrorMessage())
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, res.Value.Hosts); diff != "" {
		t.Errorf("Hosts mismatch (-want +got):\n%s", diff)
	}
}

func TestParseArrayStopsAtNextOption(t *testing.T) {
	type options struct {
		Tags    []string `flag:"tags"`
		Verbose bool     `flag:"verbose"`
	}

	res := ParseWith[options]([]string{"--tags", "a", "b", "--verbose"}, testEnv(nil))
	if !res.Ok() {
		t.Fatalf("parse failed: %s", res.ErrorMessage())
	}
	if diff := cmp.Diff([]string{"a", "b"}, res.Value.Tags); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
	if !res.Value.Verbose {
		t.Error("expected Verbose=true after greedy array stopped at option token")
	}
}

func TestParsePositionals(t *testing.T) {
	type options struct {
		Command string `index:"0"`
		Url     string `index:"1"`
		Verbose bool   `flag:"verbose"`
	}

	res := ParseWith[options]([]string{"clone", "https://example.com", "--verbose"}, testEnv(nil))
	if !res.Ok() {
		t.Fatalf("parse failed: %s", res.ErrorMessage())
	}

	want := options{Command: "clone", Url: "https://example.com", Verbose: true}
	if diff := cmp.Diff(want, *res.Value); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestParseVariadicTailPositional(t *testing.T) {
	type options struct {
		Command string   `index:"0"`
		Files   []string `index:"1"`
		Force   bool     `flag:"force"`
	}

	res := ParseWith[options]([]string{"add", "a.go", "--force", "b.go", "c.go"}, testEnv(nil))
	if !res.Ok() {
		t.Fatalf("parse failed: %s", res.ErrorMessage())
	}
	if res.Value.Command != "add" {
		t.Errorf("Command = %q, want %q", res.Value.Command, "add")
	}
	if diff := cmp.Diff([]string{"a.go", "b.go", "c.go"}, res.Value.Files); diff != "" {
		t.Errorf("Files mismatch (-want +got):\n%s", diff)
	}
	if !res.Value.Force {
		t.Error("expected Force=true")
	}
}

func TestParseShortOptions(t *testing.T) {
	type options struct {
		Name    string `flag:"name" short:"n"`
		Verbose bool   `flag:"verbose" short:"v"`
	}

	res := ParseWith[options]([]string{"-n", "demo", "-v"}, testEnv(nil))
	if !res.Ok() {
		t.Fatalf("parse failed: %s", res.ErrorMessage())
	}
	if res.Value.Name != "demo" || !res.Value.Verbose {
		t.Errorf("got %+v, want Name=demo Verbose=true", *res.Value)
	}

	res = ParseWith[options]([]string{"-n=inline"}, testEnv(nil))
	if !res.Ok() {
		t.Fatalf("parse failed: %s", res.ErrorMessage())
	}
	if res.Value.Name != "inline" {
		t.Errorf("Name = %q, want %q", res.Value.Name, "inline")
	}
}

func TestParseCaseSensitivity(t *testing.T) {
	type options struct {
		Name string `flag:"Name"`
	}

	// Default: case-insensitive.
	res := ParseWith[options]([]string{"--NAME", "x"}, testEnv(nil))
	if !res.Ok() {
		t.Fatalf("case-insensitive parse failed: %s", res.ErrorMessage())
	}
	if res.Value.Name != "x" {
		t.Errorf("Name = %q, want %q", res.Value.Name, "x")
	}

	// Case-sensitive: the exact declared spelling is required.
	strict := Settings{CaseSensitive: true, IgnoreUnknownArguments: false}
	strict.LookupEnv = func(string) (string, bool) { return "", false }
	res = ParseWith[options]([]string{"--NAME", "x"}, strict)
	if res.Ok() {
		t.Fatal("expected unknown option error for --NAME under case-sensitive settings")
	}
	if res.Errors[0].Type != ErrorTypeUnknownOption {
		t.Errorf("error type = %v, want %v", res.Errors[0].Type, ErrorTypeUnknownOption)
	}
}

func TestParsePrecedence(t *testing.T) {
	type options struct {
		Host string `flag:"host" env:"APP_HOST" default:"localhost"`
	}

	// Environment beats default.
	res := ParseWith[options](nil, testEnv(map[string]string{"APP_HOST": "env-host"}))
	if !res.Ok() {
		t.Fatalf("parse failed: %s", res.ErrorMessage())
	}
	if res.Value.Host != "env-host" {
		t.Errorf("Host = %q, want env value %q", res.Value.Host, "env-host")
	}

	// Command line beats environment and default.
	res = ParseWith[options]([]string{"--host", "cli-host"}, testEnv(map[string]string{"APP_HOST": "env-host"}))
	if !res.Ok() {
		t.Fatalf("parse failed: %s", res.ErrorMessage())
	}
	if res.Value.Host != "cli-host" {
		t.Errorf("Host = %q, want command-line value %q", res.Value.Host, "cli-host")
	}

	// Default when neither is present.
	res = ParseWith[options](nil, testEnv(nil))
	if !res.Ok() {
		t.Fatalf("parse failed: %s", res.ErrorMessage())
	}
	if res.Value.Host != "localhost" {
		t.Errorf("Host = %q, want default %q", res.Value.Host, "localhost")
	}

	// Empty environment values do not count.
	res = ParseWith[options](nil, testEnv(map[string]string{"APP_HOST": ""}))
	if !res.Ok() {
		t.Fatalf("parse failed: %s", res.ErrorMessage())
	}
	if res.Value.Host != "localhost" {
		t.Errorf("Host = %q, want default %q when env var is empty", res.Value.Host, "localhost")
	}
}

func TestParseEnvConversion(t *testing.T) {
	type options struct {
		Port int      `flag:"port" env:"APP_PORT"`
		Tags []string `flag:"tags" env:"APP_TAGS"`
	}

	res := ParseWith[options](nil, testEnv(map[string]string{
		"APP_PORT": "9090",
		"APP_TAGS": "a;b;c",
	}))
	if !res.Ok() {
		t.Fatalf("parse failed: %s", res.ErrorMessage())
	}
	if res.Value.Port != 9090 {
		t.Errorf("Port = %d, want 9090", res.Value.Port)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, res.Value.Tags); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}

	// A malformed environment value is an invalid_value error.
	res = ParseWith[options](nil, testEnv(map[string]string{"APP_PORT": "not-a-number"}))
	if res.Ok() {
		t.Fatal("expected error for malformed environment value")
	}
	if res.Errors[0].Type != ErrorTypeInvalidValue {
		t.Errorf("error type = %v, want %v", res.Errors[0].Type, ErrorTypeInvalidValue)
	}
}

func TestParseMissingRequired(t *testing.T) {
	type options struct {
		Name string `flag:"name" required:"true"`
		Port int    `flag:"port"`
	}

	res := ParseWith[options]([]string{"--port", "80"}, testEnv(nil))
	if res.Ok() {
		t.Fatal("expected missing_required error")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %d: %s", len(res.Errors), res.ErrorMessage())
	}
	e := res.Errors[0]
	if e.Type != ErrorTypeMissingRequired {
		t.Errorf("error type = %v, want %v", e.Type, ErrorTypeMissingRequired)
	}
	if e.Option != "name" {
		t.Errorf("error option = %q, want %q", e.Option, "name")
	}
}

func TestParseRequiredSatisfiedByFallbacks(t *testing.T) {
	type options struct {
		Name string `flag:"name" env:"APP_NAME" required:"true"`
		Mode string `flag:"mode" default:"fast" required:"true"`
	}

	res := ParseWith[options](nil, testEnv(map[string]string{"APP_NAME": "from-env"}))
	if !res.Ok() {
		t.Fatalf("parse failed: %s", res.ErrorMessage())
	}
	if res.Value.Name != "from-env" || res.Value.Mode != "fast" {
		t.Errorf("got %+v, want Name=from-env Mode=fast", *res.Value)
	}
}

func TestParseUnknownOption(t *testing.T) {
	type options struct {
		Port    int  `flag:"port"`
		Verbose bool `flag:"verbose"`
	}

	strict := testEnv(nil)
	strict.IgnoreUnknownArguments = false

	res := ParseWith[options]([]string{"--bogus", "--port", "80", "--verbose"}, strict)
	if res.Ok() {
		t.Fatal("expected unknown_option error for --bogus")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %d: %s", len(res.Errors), res.ErrorMessage())
	}
	if res.Errors[0].Type != ErrorTypeUnknownOption {
		t.Errorf("error type = %v, want %v", res.Errors[0].Type, ErrorTypeUnknownOption)
	}

	// Tolerant settings drop the token silently.
	res = ParseWith[options]([]string{"--bogus", "--port", "80"}, testEnv(nil))
	if !res.Ok() {
		t.Fatalf("parse failed under tolerant settings: %s", res.ErrorMessage())
	}
	if res.Value.Port != 80 {
		t.Errorf("Port = %d, want 80", res.Value.Port)
	}
}

func TestParseUnknownOptionSuggestion(t *testing.T) {
	type options struct {
		Verbose bool `flag:"verbose"`
	}

	strict := testEnv(nil)
	strict.IgnoreUnknownArguments = false

	res := ParseWith[options]([]string{"--verbse"}, strict)
	if res.Ok() {
		t.Fatal("expected unknown_option error")
	}
	if res.Errors[0].Suggestion != "verbose" {
		t.Errorf("Suggestion = %q, want %q", res.Errors[0].Suggestion, "verbose")
	}
}

func TestParseCollectsAllErrors(t *testing.T) {
	type options struct {
		Port int    `flag:"port"`
		Name string `flag:"name" required:"true"`
	}

	strict := testEnv(nil)
	strict.IgnoreUnknownArguments = false

	res := ParseWith[options]([]string{"--port", "not-a-number", "--bogus"}, strict)
	if res.Ok() {
		t.Fatal("expected errors")
	}
	if len(res.Errors) != 3 {
		t.Fatalf("expected 3 errors (invalid, unknown, missing), got %d: %s", len(res.Errors), res.ErrorMessage())
	}
	wantTypes := []ErrorType{ErrorTypeInvalidValue, ErrorTypeUnknownOption, ErrorTypeMissingRequired}
	for i, want := range wantTypes {
		if res.Errors[i].Type != want {
			t.Errorf("Errors[%d].Type = %v, want %v", i, res.Errors[i].Type, want)
		}
	}
}

func TestParseEnum(t *testing.T) {
	type options struct {
		Level string `flag:"level" enum:"debug,info,warn,error" default:"info"`
	}

	// Case-insensitive match yields the canonical spelling.
	res := ParseWith[options]([]string{"--level", "WARN"}, testEnv(nil))
	if !res.Ok() {
		t.Fatalf("parse failed: %s", res.ErrorMessage())
	}
	if res.Value.Level != "warn" {
		t.Errorf("Level = %q, want %q", res.Value.Level, "warn")
	}

	res = ParseWith[options]([]string{"--level", "loud"}, testEnv(nil))
	if res.Ok() {
		t.Fatal("expected invalid_value error for undeclared enum name")
	}
	if res.Errors[0].Type != ErrorTypeInvalidValue {
		t.Errorf("error type = %v, want %v", res.Errors[0].Type, ErrorTypeInvalidValue)
	}
}

func TestParseIntegerEnum(t *testing.T) {
	type options struct {
		Mode int `flag:"mode" enum:"slow,fast,turbo"`
	}

	res := ParseWith[options]([]string{"--mode", "turbo"}, testEnv(nil))
	if !res.Ok() {
		t.Fatalf("parse failed: %s", res.ErrorMessage())
	}
	if res.Value.Mode != 2 {
		t.Errorf("Mode = %d, want ordinal 2", res.Value.Mode)
	}
}

func TestParseFlagsEnum(t *testing.T) {
	type options struct {
		Perm int `flag:"perm" enumflags:"read=1,write=2,exec=4"`
	}

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "inline separator form", args: []string{"--perm=read;write"}, want: 3},
		{name: "inline space form", args: []string{`--perm="read write exec"`}, want: 7},
		{name: "bare name form", args: []string{"--perm", "read", "exec"}, want: 5},
		{name: "single name", args: []string{"--perm", "write"}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseWith[options](tt.args, testEnv(nil))
			if !res.Ok() {
				t.Fatalf("parse failed: %s", res.ErrorMessage())
			}
			if res.Value.Perm != tt.want {
				t.Errorf("Perm = %d, want %d", res.Value.Perm, tt.want)
			}
		})
	}
}

func TestParseQuotedValues(t *testing.T) {
	type options struct {
		Message string `flag:"message"`
		Path    string `index:"0"`
	}

	// The shell splits a quoted value; the tokenizer re-joins it.
	res := ParseWith[options]([]string{`--message="hello`, `world"`, `out.txt`}, testEnv(nil))
	if !res.Ok() {
		t.Fatalf("parse failed: %s", res.ErrorMessage())
	}
	if res.Value.Message != "hello world" {
		t.Errorf("Message = %q, want %q", res.Value.Message, "hello world")
	}
	if res.Value.Path != "out.txt" {
		t.Errorf("Path = %q, want %q", res.Value.Path, "out.txt")
	}
}

func TestParseMissingValue(t *testing.T) {
	type options struct {
		Name string `flag:"name"`
	}

	res := ParseWith[options]([]string{"--name"}, testEnv(nil))
	if res.Ok() {
		t.Fatal("expected invalid_value error for option with no value")
	}
	if res.Errors[0].Type != ErrorTypeInvalidValue {
		t.Errorf("error type = %v, want %v", res.Errors[0].Type, ErrorTypeInvalidValue)
	}
}

func TestParseScalarLastOneWins(t *testing.T) {
	type options struct {
		Port int `flag:"port"`
	}

	res := ParseWith[options]([]string{"--port", "80", "--port", "443"}, testEnv(nil))
	if !res.Ok() {
		t.Fatalf("parse failed: %s", res.ErrorMessage())
	}
	if res.Value.Port != 443 {
		t.Errorf("Port = %d, want 443 (last occurrence wins)", res.Value.Port)
	}
}

func TestResultEnvelope(t *testing.T) {
	type options struct {
		Name string `flag:"name" required:"true"`
		Port int    `flag:"port"`
	}

	res := ParseWith[options]([]string{"--port", "x"}, testEnv(nil))
	if res.Ok() {
		t.Fatal("expected failure")
	}
	if res.Value != nil {
		t.Error("failed result must not carry a value")
	}
	if res.Err() == nil {
		t.Error("Err() must be non-nil on failure")
	}
	lines := len(res.Errors)
	msg := res.ErrorMessage()
	if got := 1 + countByte(msg, '\n'); got != lines {
		t.Errorf("ErrorMessage has %d lines, want %d", got, lines)
	}

	ok := ParseWith[options]([]string{"--name", "x"}, testEnv(nil))
	if !ok.Ok() || ok.Err() != nil || ok.ErrorMessage() != "" {
		t.Errorf("successful result must be empty of errors, got %q", ok.ErrorMessage())
	}
}

func countByte(s string, b byte) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			n++
		}
	}
	return n
}
