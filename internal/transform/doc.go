// Package transform rewrites page and wrapper source text into framework-agnostic
// source without parsing it. Every rewrite is an ordered, named Rule; later rules
// see the output of earlier ones.
//
// Two variants exist. Standalone output is written next to the synthesized document
// and keeps its default export. Inline output is spliced into a single script block,
// so it additionally drops module syntax the in-browser compiler cannot resolve.
package transform
