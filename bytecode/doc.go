// Package bytecode holds the output of compilation: literal values,
// instructions and programs.
//
// A Program is created once by the compiler and never modified afterwards,
// so it may be shared by any number of goroutines and machines. Programs come
// in two forms:
//
//   - Symbolic: the compiler's output. Function bodies and conditional
//     convergence points are marked by LABEL pseudo-instructions, JUMP and
//     MAKE_FUNCTION name their target label, and JUMP_IF_FALSE and
//     JUMP_IF_TRUE skip a relative number of instructions. String renders
//     this form as the canonical listing.
//   - Linked: the result of [Program.Link]. Labels are gone and every
//     target is an absolute instruction index.
//
// Programs serialize to a deterministic CBOR form with [Marshal], so equal
// programs always encode to equal bytes and hash to the same [Hash].
package bytecode
