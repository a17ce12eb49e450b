package bytecode

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// ImageMagic prefixes a serialized program image ("FLXI").
var ImageMagic = []byte{'F', 'L', 'X', 'I'}

// ImageVersion is bumped on incompatible changes to the image layout.
const ImageVersion uint16 = 1

var (
	ErrInvalidMagic    = errors.New("invalid magic number: expected FLXI")
	ErrVersionMismatch = errors.New("image version mismatch")
)

// image is the CBOR envelope around a loaded program.
type image struct {
	Version uint16   `cbor:"v"`
	Program *Program `cbor:"p"`
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// IsImage reports whether data starts with the image magic.
func IsImage(data []byte) bool {
	return bytes.HasPrefix(data, ImageMagic)
}

// MarshalProgram serializes a loaded program, with labels already resolved,
// so it can be run later without re-parsing the text listing.
func MarshalProgram(p *Program) ([]byte, error) {
	body, err := cborEncMode.Marshal(image{Version: ImageVersion, Program: p})
	if err != nil {
		return nil, fmt.Errorf("bytecode: marshal program: %w", err)
	}
	return append(append([]byte{}, ImageMagic...), body...), nil
}

// UnmarshalProgram deserializes an image written by MarshalProgram.
func UnmarshalProgram(data []byte) (*Program, error) {
	if !IsImage(data) {
		return nil, ErrInvalidMagic
	}
	var img image
	if err := cbor.Unmarshal(data[len(ImageMagic):], &img); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal program: %w", err)
	}
	if img.Version != ImageVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, img.Version, ImageVersion)
	}
	if img.Program == nil {
		return nil, fmt.Errorf("bytecode: unmarshal program: empty image")
	}
	p := img.Program
	if p.Labels == nil {
		p.Labels = make(map[string]int)
	}
	if p.Functions == nil {
		p.Functions = make(map[string]Function)
	}
	if _, ok := p.Functions[MainFunction]; !ok {
		return nil, &LoadError{Kind: NoEntryPoint}
	}
	return p, nil
}
