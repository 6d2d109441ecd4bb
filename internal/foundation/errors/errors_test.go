package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("builder fields", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "bundleless.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())
		assert.Equal(t, "bundleless.yaml", err.Context().String("file"))
		assert.Empty(t, err.Context().String("missing"))
		assert.Equal(t, "[config] invalid configuration", err.Error())
	})

	t.Run("route and cause in message", func(t *testing.T) {
		cause := errors.New("permission denied")
		err := FileSystemError("write route document").WithCause(cause).WithRoute("/about").Build()

		assert.Equal(t, "/about", err.Route())
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "[filesystem] write route document (route /about): permission denied", err.Error())
	})

	t.Run("detection through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("generate: %w", TransformError("unparseable").Build())

		assert.True(t, HasCategory(wrapped, CategoryTransform))
		assert.False(t, HasCategory(wrapped, CategoryAsset))
		assert.False(t, HasCategory(errors.New("plain"), CategoryInternal))

		c, ok := AsClassified(wrapped)
		require.True(t, ok)
		assert.Equal(t, SeverityWarning, c.Severity())
	})

	t.Run("is compares category and message", func(t *testing.T) {
		a := WatchError("watcher died").WithContext("path", "/a").Build()
		b := WatchError("watcher died").WithContext("path", "/b").Build()
		assert.ErrorIs(t, a, b)
		assert.NotErrorIs(t, a, PreviewError("watcher died").Build())
	})
}

func TestErrorCategory_ExitCode(t *testing.T) {
	tests := map[ErrorCategory]int{
		CategoryValidation: 2,
		CategoryNotFound:   3,
		CategoryConfig:     7,
		CategoryAsset:      11,
		CategoryTransform:  11,
		CategoryFileSystem: 11,
		CategoryWatch:      12,
		CategoryPreview:    12,
		CategoryInternal:   10,
		"other":            1,
	}
	for cat, want := range tests {
		assert.Equal(t, want, cat.ExitCode(), string(cat))
	}
}
