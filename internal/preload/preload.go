// Package preload supplies the "embedded-preload bootstrap" §1 names as an
// external collaborator outside the core's required ABI: a small Forth
// source compiled before the interactive loop starts, the way gothird's
// main.go feeds thirdKernel through WithInputWriter ahead of os.Stdin.
package preload

// Source defines a couple of conveniences in the vocabulary the spec's own
// worked examples (§8) use, so a fresh boot already has sq and abs? defined.
const Source = `
: sq DUP * ;
: abs? DUP 0 < IF NEG THEN ;
`
