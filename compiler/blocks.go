package compiler

import (
	"errors"
	"fmt"
)

// BlockKind is one of the nestable constructs.
type BlockKind int

const (
	BlockIf BlockKind = iota
	BlockWhile
	BlockFor

	numBlockKinds
)

func (k BlockKind) String() string {
	switch k {
	case BlockIf:
		return "if"
	case BlockWhile:
		return "while"
	case BlockFor:
		return "for"
	default:
		return fmt.Sprintf("BlockKind(%d)", int(k))
	}
}

// Label synthesizes the label name for one part of a block,
// e.g. BlockWhile.Label("start", 3) == "while_start_3".
func (k BlockKind) Label(part string, id int) string {
	return fmt.Sprintf("%s_%s_%d", k, part, id)
}

// Block is an open construct on a tracker stack.
type Block struct {
	ID      int
	Line    int  // source line of the opener
	HasElse bool // if blocks only
}

// BlockTracker keeps one LIFO stack of open blocks per kind. Ids are
// allocated per kind, start at 0 and are never reused.
type BlockTracker struct {
	stacks [numBlockKinds][]Block
	next   [numBlockKinds]int
}

// NewBlockTracker creates a tracker with empty stacks.
func NewBlockTracker() *BlockTracker {
	return &BlockTracker{}
}

// Push opens a block of the given kind and returns its id.
func (t *BlockTracker) Push(kind BlockKind, line int) int {
	id := t.next[kind]
	t.next[kind]++
	t.stacks[kind] = append(t.stacks[kind], Block{ID: id, Line: line})
	return id
}

// Pop closes the innermost block of the given kind.
func (t *BlockTracker) Pop(kind BlockKind, line int, text string) (Block, error) {
	s := t.stacks[kind]
	if len(s) == 0 {
		return Block{}, &Error{Kind: UnbalancedBlock, Block: kind, Line: line, Text: text}
	}
	b := s[len(s)-1]
	t.stacks[kind] = s[:len(s)-1]
	return b, nil
}

// Peek returns the innermost open block of the given kind.
func (t *BlockTracker) Peek(kind BlockKind) (Block, bool) {
	s := t.stacks[kind]
	if len(s) == 0 {
		return Block{}, false
	}
	return s[len(s)-1], true
}

// MarkElse records an else on the innermost if. A second else for the
// same if is unbalanced.
func (t *BlockTracker) MarkElse(line int, text string) (Block, error) {
	s := t.stacks[BlockIf]
	if len(s) == 0 || s[len(s)-1].HasElse {
		return Block{}, &Error{Kind: UnbalancedBlock, Block: BlockIf, Line: line, Text: text}
	}
	s[len(s)-1].HasElse = true
	return s[len(s)-1], nil
}

// Depth returns how many blocks of the kind are open.
func (t *BlockTracker) Depth(kind BlockKind) int {
	return len(t.stacks[kind])
}

// Check reports every block still open, one error per kind.
func (t *BlockTracker) Check() error {
	var errs []error
	for k := BlockKind(0); k < numBlockKinds; k++ {
		if b, ok := t.Peek(k); ok {
			errs = append(errs, &Error{Kind: UnclosedBlock, Block: k, Line: b.Line})
		}
	}
	return errors.Join(errs...)
}
