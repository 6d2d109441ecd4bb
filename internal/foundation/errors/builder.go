package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError creates a new ErrorBuilder with the specified category and message.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: SeverityError,
		message:  message,
		context:  ErrorContext{},
	}}
}

// WithSeverity sets the error severity.
func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.err.severity = severity
	return b
}

// WithCause sets the wrapped error.
func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.err.cause = err
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context[key] = value
	return b
}

// WithRoute records the route path the error belongs to.
func (b *ErrorBuilder) WithRoute(path string) *ErrorBuilder {
	return b.WithContext(KeyRoute, path)
}

// Build creates the final ClassifiedError. The builder must not be reused.
func (b *ErrorBuilder) Build() *ClassifiedError {
	e := b.err
	return &e
}

// ConfigError creates a configuration error.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).WithSeverity(SeverityFatal)
}

// ValidationError creates a validation error.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).WithSeverity(SeverityFatal)
}

// NotFoundError creates an error for a required input that does not exist.
func NotFoundError(message string) *ErrorBuilder {
	return NewError(CategoryNotFound, message).WithSeverity(SeverityFatal)
}

// AssetError creates an asset resolution error.
func AssetError(message string) *ErrorBuilder {
	return NewError(CategoryAsset, message)
}

// TransformError creates a page transformation error. The route is skipped, not the run.
func TransformError(message string) *ErrorBuilder {
	return NewError(CategoryTransform, message).WithSeverity(SeverityWarning)
}

// FileSystemError creates a filesystem error.
func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message)
}

// WatchError creates a watcher error.
func WatchError(message string) *ErrorBuilder {
	return NewError(CategoryWatch, message).WithSeverity(SeverityFatal)
}

// PreviewError creates a preview server error.
func PreviewError(message string) *ErrorBuilder {
	return NewError(CategoryPreview, message).WithSeverity(SeverityFatal)
}

// InternalError creates an internal error.
func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).WithSeverity(SeverityFatal)
}
