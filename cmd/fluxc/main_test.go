package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/flux/compiler"
)

func TestCompileFileWritesBytecode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "hello.flux")
	dst := filepath.Join(dir, "hello.fluxb")
	if err := os.WriteFile(src, []byte("int main():\nprint(\"hi\")\nend\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := compileFile(src, dst, compiler.DefaultOptions()); err != nil {
		t.Fatalf("compileFile: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	want := "[0x02] entry int main()\n[0x50] print \"hi\"\n[0x03] end main\n"
	if string(data) != want {
		t.Errorf("output = %q, want %q", data, want)
	}
}

func TestCompileFileErrorLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.flux")
	dst := filepath.Join(dir, "bad.fluxb")
	if err := os.WriteFile(src, []byte("int main():\nendif\nend\n"), 0644); err != nil {
		t.Fatal(err)
	}

	err := compileFile(src, dst, compiler.DefaultOptions())
	if err == nil || !strings.Contains(err.Error(), "UnbalancedBlock") {
		t.Fatalf("error = %v, want UnbalancedBlock", err)
	}
	if _, statErr := os.Stat(dst); !os.IsNotExist(statErr) {
		t.Errorf("output file exists after failed compile")
	}
}

func TestCompileFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := compileFile(filepath.Join(dir, "nope.flux"), filepath.Join(dir, "out"), compiler.DefaultOptions())
	if err == nil || !strings.Contains(err.Error(), "cannot open source") {
		t.Errorf("error = %v", err)
	}
}
