// Package errors provides the classified error primitives used across bundleless.
//
// A ClassifiedError carries a category (config, discovery, asset, transform,
// filesystem, watch, ...), a severity and structured context. Errors are built
// with the fluent ErrorBuilder:
//
//	err := errors.FileSystemError("copy asset failed").
//		WithCause(ioErr).
//		WithContext("asset", ref).
//		Build()
//
// The CLI adapter maps categories to process exit codes and log levels.
package errors
