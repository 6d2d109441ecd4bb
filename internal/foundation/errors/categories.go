package errors

// ErrorCategory classifies an error for exit-code mapping and log routing.
type ErrorCategory string

const (
	// Invocation errors: the user must fix flags, environment or bundleless.yaml.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// Generation errors raised while turning routes into output.
	CategoryAsset      ErrorCategory = "asset"
	CategoryTransform  ErrorCategory = "transform"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Runtime errors of the long-running watch command.
	CategoryWatch    ErrorCategory = "watch"
	CategoryPreview  ErrorCategory = "preview"
	CategoryInternal ErrorCategory = "internal"
)

// ExitCode returns the process exit status used for errors of this category.
func (c ErrorCategory) ExitCode() int {
	switch c {
	case CategoryValidation:
		return 2
	case CategoryNotFound:
		return 3
	case CategoryConfig:
		return 7
	case CategoryAsset, CategoryTransform, CategoryFileSystem:
		return 11
	case CategoryWatch, CategoryPreview:
		return 12
	case CategoryInternal:
		return 10
	default:
		return 1
	}
}

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the command
	SeverityError   ErrorSeverity = "error"   // Fails the current run
	SeverityWarning ErrorSeverity = "warning" // Skips one route, the run continues
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}

// String retrieves a string context value, or "" when absent or not a string.
func (c ErrorContext) String(key string) string {
	s, _ := c[key].(string)
	return s
}
