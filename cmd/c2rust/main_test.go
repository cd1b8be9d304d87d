package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	if version == "" {
		t.Error("version should not be empty")
	}
}

func TestDebugFlagsExist(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)

	for _, flagName := range []string{"dparse", "drust"} {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("expected flag --%s to exist", flagName)
		}
	}
}

func writeTempC(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "input.c")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("writing temp C file: %v", err)
	}
	return path
}

func TestTranslateSimpleFunction(t *testing.T) {
	path := writeTempC(t, "int add(int a, int b) { return a + b; }")

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v (stderr: %s)", err, errOut.String())
	}

	got := out.String()
	for _, want := range []string{"pub fn add", "a: i32", "b: i32", "-> i32", "return (a + b);"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q, got:\n%s", want, got)
		}
	}
}

func TestDParseDumpsAST(t *testing.T) {
	path := writeTempC(t, "int f(void) { return 1; }")

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--dparse", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "f") {
		t.Errorf("expected parsed AST dump to mention function name, got: %s", out.String())
	}
}

func TestStaticFunctionIsPrivate(t *testing.T) {
	path := writeTempC(t, "static int g(void) { return 0; }")

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out.String(), "pub fn g") {
		t.Errorf("expected g to be private, got: %s", out.String())
	}
	if !strings.Contains(out.String(), "fn g") {
		t.Errorf("expected fn g to appear, got: %s", out.String())
	}
}

func TestUnsupportedConstructReportsError(t *testing.T) {
	path := writeTempC(t, "int f(void) { int *p; return 0; }")

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{path})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an error translating a pointer declarator, got none; stdout: %s", out.String())
	}
	if !strings.Contains(errOut.String(), "unsupported declarator") {
		t.Errorf("expected an unsupported-declarator message, got: %s", errOut.String())
	}
}

func TestMissingFileReportsError(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "does-not-exist.c")})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
