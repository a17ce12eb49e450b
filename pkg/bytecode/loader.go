package bytecode

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("flux.bytecode")

// Loader builds Program tables from the bytecode text format.
type Loader struct {
	prog    *Program
	skipped int
}

// NewLoader creates a loader with empty tables.
func NewLoader() *Loader {
	return &Loader{
		prog: &Program{
			Labels:    make(map[string]int),
			Functions: make(map[string]Function),
			Main:      -1,
		},
	}
}

// Skipped returns the number of malformed lines dropped so far.
func (l *Loader) Skipped() int {
	return l.skipped
}

// Load reads a whole bytecode stream and returns the finished program.
func Load(r io.Reader) (*Program, error) {
	return NewLoader().Load(r)
}

// LoadString is Load over an in-memory listing.
func LoadString(src string) (*Program, error) {
	return Load(strings.NewReader(src))
}

// LoadFile loads either a text listing or a CBOR program image, chosen by
// the image magic at the start of the file.
func LoadFile(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if IsImage(data) {
		return UnmarshalProgram(data)
	}
	prog, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

// Load consumes r line by line. Blank and '#' lines are skipped, malformed
// lines are logged and skipped. Tables are only returned once the whole
// stream has been read and labels have been resolved.
func (l *Loader) Load(r io.Reader) (*Program, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if err := l.addLine(sc.Text(), lineNo); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read bytecode: %w", err)
	}
	return l.finish()
}

func (l *Loader) addLine(line string, lineNo int) error {
	text := strings.TrimSpace(line)
	if text == "" || strings.HasPrefix(text, "#") {
		return nil
	}

	in, err := DecodeLine(text, lineNo)
	if err != nil {
		if errors.Is(err, ErrMalformed) {
			l.skip(err)
			return nil
		}
		return err
	}

	index := len(l.prog.Instructions)
	switch in.Op {
	case OpLabel:
		if prev, dup := l.prog.Labels[in.A]; dup {
			log.Debugf("label %q first defined at instruction %d", in.A, prev)
			return &LoadError{Kind: DuplicateLabel, Name: in.A, Line: lineNo}
		}
		l.prog.Labels[in.A] = index

	case OpEntry:
		name, params, err := ParseSignature(in.B)
		if err != nil {
			l.skip(fmt.Errorf("line %d: %v: %w", lineNo, err, ErrMalformed))
			return nil
		}
		if _, dup := l.prog.Functions[name]; dup {
			return &LoadError{Kind: DuplicateFunction, Name: name, Line: lineNo}
		}
		l.prog.Functions[name] = Function{
			Name:       name,
			ReturnType: in.A,
			Entry:      index,
			Params:     params,
		}
		if name == MainFunction {
			l.prog.Main = index
		}
	}

	l.prog.Instructions = append(l.prog.Instructions, in)
	return nil
}

func (l *Loader) skip(err error) {
	l.skipped++
	log.Warningf("skipping bytecode line: %v", err)
}

// finish rewrites every jump target into an instruction index. Targets that
// do not resolve stay at NoTarget and fail only if the jump executes.
func (l *Loader) finish() (*Program, error) {
	if l.prog.Main < 0 {
		return nil, &LoadError{Kind: NoEntryPoint}
	}
	for i := range l.prog.Instructions {
		in := &l.prog.Instructions[i]
		if !in.Op.IsJump() {
			continue
		}
		if target, ok := l.prog.Labels[in.JumpLabel()]; ok {
			in.Target = target
		} else {
			log.Debugf("instruction %d: label %q not defined", i, in.JumpLabel())
		}
	}
	return l.prog, nil
}

// JumpLabel returns the symbolic target of a jmp or jz instruction.
func (in Instruction) JumpLabel() string {
	if in.Op == OpJumpFalse {
		return in.B
	}
	return in.A
}
