// Package watch re-runs generation when the source tree changes.
//
// One goroutine owns a Machine and reacts to filesystem events, generation
// completions, the debounce timer and optional periodic rescans. Generation itself
// runs on a worker goroutine, so events keep being drained while it works.
package watch
