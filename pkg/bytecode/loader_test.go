package bytecode

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const loopListing = `# counting loop
[0x02] entry void main()
[0x10] store i int 0
[0x01] label while_start_0
[0x27] lt __cond i 3
[0x31] jz __cond while_end_0
[0x50] print i
[0x20] add i i 1
[0x30] jmp while_start_0
[0x01] label while_end_0
[0x03] end main

[0x02] entry int add(int a, int b)
[0x20] add __ret a b
[0x41] ret __ret
[0x03] end add
`

func TestLoadBuildsTables(t *testing.T) {
	p, err := LoadString(loopListing)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(p.Instructions) != 14 {
		t.Fatalf("instructions = %d, want 14", len(p.Instructions))
	}
	if p.Main != 0 || p.Start() != 1 {
		t.Errorf("Main = %d, Start = %d; want 0, 1", p.Main, p.Start())
	}

	if got := p.Labels["while_start_0"]; got != 2 {
		t.Errorf("while_start_0 = %d, want 2", got)
	}
	if got := p.Labels["while_end_0"]; got != 8 {
		t.Errorf("while_end_0 = %d, want 8", got)
	}

	add, ok := p.Function("add")
	if !ok {
		t.Fatal("function add not in table")
	}
	if add.Entry != 10 || add.ReturnType != "int" || add.Arity() != 2 {
		t.Errorf("add = %+v", add)
	}
	if add.Params[0] != (Param{Type: "int", Name: "a"}) || add.Params[1] != (Param{Type: "int", Name: "b"}) {
		t.Errorf("add params = %+v", add.Params)
	}
}

func TestLoadResolvesJumpTargets(t *testing.T) {
	p, err := LoadString(loopListing)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	jz := p.Instructions[4]
	if jz.Op != OpJumpFalse || jz.Target != 8 {
		t.Errorf("jz target = %d, want 8 (%+v)", jz.Target, jz)
	}
	jmp := p.Instructions[7]
	if jmp.Op != OpJump || jmp.Target != 2 {
		t.Errorf("jmp target = %d, want 2 (%+v)", jmp.Target, jmp)
	}
}

func TestLoadLeavesUnknownLabelsUnresolved(t *testing.T) {
	p, err := LoadString("entry void main()\njmp nowhere\nend\n")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Instructions[1].Target != NoTarget {
		t.Errorf("Target = %d, want NoTarget", p.Instructions[1].Target)
	}
}

func TestLoadNoEntryPoint(t *testing.T) {
	_, err := LoadString("entry int helper()\nend helper\n")
	var le *LoadError
	if !errors.As(err, &le) || le.Kind != NoEntryPoint {
		t.Fatalf("err = %v, want NoEntryPoint", err)
	}
}

func TestLoadDuplicateLabel(t *testing.T) {
	_, err := LoadString("entry void main()\nlabel a\nlabel a\nend\n")
	var le *LoadError
	if !errors.As(err, &le) || le.Kind != DuplicateLabel {
		t.Fatalf("err = %v, want DuplicateLabel", err)
	}
	if le.Name != "a" || le.Line != 3 {
		t.Errorf("LoadError = %+v", le)
	}
}

func TestLoadDuplicateFunction(t *testing.T) {
	_, err := LoadString("entry void main()\nend\nentry void main()\nend\n")
	var le *LoadError
	if !errors.As(err, &le) || le.Kind != DuplicateFunction {
		t.Fatalf("err = %v, want DuplicateFunction", err)
	}
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	l := NewLoader()
	src := "entry void main()\n[0x99 broken\nstore x int\nentry int (oops\nprint 1\nend\n"
	p, err := l.Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if l.Skipped() != 3 {
		t.Errorf("Skipped = %d, want 3", l.Skipped())
	}
	if len(p.Instructions) != 3 {
		t.Errorf("instructions = %d, want 3", len(p.Instructions))
	}
}

func TestLoadKeepsUnknownOpcodes(t *testing.T) {
	p, err := LoadString("entry void main()\nwibble 1 2\nend\n")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Instructions[1].Op != OpUnknown || p.Instructions[1].Name() != "wibble" {
		t.Errorf("instruction = %+v", p.Instructions[1])
	}
}

func TestParseSignature(t *testing.T) {
	name, params, err := ParseSignature(`greet(str who, int times)`)
	if err != nil {
		t.Fatalf("ParseSignature: %v", err)
	}
	if name != "greet" || len(params) != 2 || params[1].Name != "times" {
		t.Errorf("got %q %+v", name, params)
	}

	name, params, err = ParseSignature("main()")
	if err != nil || name != "main" || len(params) != 0 {
		t.Errorf("main(): %q %+v %v", name, params, err)
	}

	for _, bad := range []string{"noparens", "(int a)", "f(int a b c)"} {
		if _, _, err := ParseSignature(bad); err == nil {
			t.Errorf("ParseSignature(%q) should fail", bad)
		}
	}
}

func TestLoadFileText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.fluxb")
	if err := os.WriteFile(path, []byte(loopListing), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(p.Functions) != 2 {
		t.Errorf("functions = %d, want 2", len(p.Functions))
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.fluxb")); err == nil {
		t.Error("expected error for missing file")
	}
}
