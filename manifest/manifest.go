// Package manifest handles flux.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/chazu/flux/compiler"
	"github.com/chazu/flux/vm"
)

// FileName is the configuration file looked up by the tools.
const FileName = "flux.toml"

// Manifest represents a flux.toml project configuration.
type Manifest struct {
	Project  Project        `toml:"project"`
	Compiler CompilerConfig `toml:"compiler"`
	VM       VMConfig       `toml:"vm"`
	Log      LogConfig      `toml:"log"`

	// Dir is the directory containing the flux.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// CompilerConfig configures bytecode output.
type CompilerConfig struct {
	EmitComments   bool `toml:"emit-comments"`
	SourceComments bool `toml:"source-comments"`
}

// VMConfig configures execution.
type VMConfig struct {
	MaxCallDepth int    `toml:"max-call-depth"`
	Scoping      string `toml:"scoping"`
	EchoPrompt   bool   `toml:"echo-prompt"`
}

// LogConfig sets the default commonlog verbosity.
type LogConfig struct {
	Verbosity int `toml:"verbosity"`
}

// Default returns the configuration used when no flux.toml exists.
func Default() *Manifest {
	return &Manifest{
		Compiler: CompilerConfig{EmitComments: true},
		VM: VMConfig{
			MaxCallDepth: vm.DefaultMaxCallDepth,
			Scoping:      vm.ScopeGlobal.String(),
			EchoPrompt:   true,
		},
		Log: LogConfig{Verbosity: -1},
	}
}

// Load parses a flux.toml file from the given directory. Keys left out of
// the file keep their defaults.
func Load(dir string) (*Manifest, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile parses the named configuration file.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	m := Default()
	if err := toml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	return m, nil
}

// FindAndLoad walks up from startDir to find a flux.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Resolve loads an explicit config path when one is given, otherwise
// searches upward from the working directory. It never returns nil.
func Resolve(explicit string) (*Manifest, error) {
	if explicit != "" {
		return LoadFile(explicit)
	}
	wd, err := os.Getwd()
	if err != nil {
		return Default(), nil
	}
	m, err := FindAndLoad(wd)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return Default(), nil
	}
	return m, nil
}

func (m *Manifest) validate() error {
	if m.VM.MaxCallDepth < 0 {
		return fmt.Errorf("vm.max-call-depth must not be negative, got %d", m.VM.MaxCallDepth)
	}
	if _, err := vm.ParseScoping(m.VM.Scoping); err != nil {
		return fmt.Errorf("vm.scoping: %w", err)
	}
	return nil
}

// CompilerOptions converts the [compiler] section.
func (m *Manifest) CompilerOptions() compiler.Options {
	return compiler.Options{
		EmitComments:   m.Compiler.EmitComments,
		SourceComments: m.Compiler.SourceComments,
	}
}

// RuntimeConfig converts the [vm] section. Streams are left to the caller.
func (m *Manifest) RuntimeConfig() vm.Config {
	cfg := vm.DefaultConfig()
	cfg.MaxCallDepth = m.VM.MaxCallDepth
	cfg.Scoping, _ = vm.ParseScoping(m.VM.Scoping)
	cfg.EchoPrompt = m.VM.EchoPrompt
	return cfg
}
