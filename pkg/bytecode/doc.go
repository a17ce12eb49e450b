// Package bytecode defines the Flux symbolic bytecode: its opcode table, the
// line-oriented text format the compiler writes, and the loader that turns a
// listing into the immutable tables the VM executes.
//
// # Text Format
//
// One instruction per line:
//
//	[0x10] store x int 5
//	[0x31] jz c while_end_0
//	[0x40] call add (a, 2)
//
// The "[0xHH]" column is the opcode number and is optional on input. A
// double-quoted string or a parenthesized group counts as a single operand.
// Lines starting with '#' are comments and are ignored by the loader.
//
// # Loading
//
// The loader builds three tables in one pass:
//
//   - Instructions: every decoded line, operands copied verbatim
//   - Labels: label name -> instruction index (duplicates are fatal)
//   - Functions: function name -> entry index and parameter list
//
// When the stream is exhausted it rewrites every jmp/jz into a direct
// instruction index so the VM never looks labels up by name while running.
// A program without a "main" function is rejected.
//
// # Images
//
// A loaded Program can be serialized with MarshalProgram into a CBOR image
// ("FLXI" magic) and run later without re-parsing.
package bytecode
