package logger_test

import (
	"context"
	"testing"

	"github.com/jonesrussell/portfolio/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ConsoleAndJSON(t *testing.T) {
	t.Parallel()

	for _, format := range []string{"json", "console", ""} {
		l, err := logger.New(logger.Config{Level: "debug", Format: format, OutputPaths: []string{"stderr"}})
		require.NoError(t, err, "format %q", format)
		l.Debug("debug entry", logger.String("format", format))
	}
}

func TestWithContext_RoundTrip(t *testing.T) {
	t.Parallel()

	l, err := logger.New(logger.Config{Level: "warn", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)

	enriched := l.With(logger.String("request_id", "abc"))
	ctx := logger.WithContext(context.Background(), enriched)

	assert.Same(t, enriched, logger.FromContext(ctx))
}

func TestFromContext_FallbackIsSingleton(t *testing.T) {
	t.Parallel()

	a := logger.FromContext(context.Background())
	b := logger.FromContext(context.Background())

	require.NotNil(t, a)
	assert.Same(t, a, b)

	a.Warn("fallback logger is usable", logger.Int("attempt", 1))
}

func TestNewNop_WithReturnsUsableLogger(t *testing.T) {
	t.Parallel()

	l := logger.NewNop().With(logger.Bool("quiet", true))
	l.Error("dropped")
	assert.NoError(t, l.Sync())
}

func TestFromContextOr(t *testing.T) {
	t.Parallel()

	def := logger.NewNop()
	assert.Equal(t, def, logger.FromContextOr(context.Background(), def))

	attached, err := logger.New(logger.Config{Level: "warn", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	ctx := logger.WithContext(context.Background(), attached)
	assert.Same(t, attached, logger.FromContextOr(ctx, def))
}
