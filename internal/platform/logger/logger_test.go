package logger

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{name: "debug level", level: "debug"},
		{name: "info level", level: "info"},
		{name: "warn level", level: "warn"},
		{name: "error level", level: "error"},
		{name: "case insensitive", level: "DEBUG"},
		{name: "empty defaults to info", level: ""},
		{name: "invalid level", level: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := Setup(Config{Level: tt.level})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestFromContext(t *testing.T) {
	ctx := context.Background()

	// Without an attached logger the default is returned.
	assert.Equal(t, slog.Default(), FromContext(ctx))

	attached := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx = WithLogger(ctx, attached)
	assert.Same(t, attached, FromContext(ctx))
}

func TestFromContextOrDefault(t *testing.T) {
	ctx := context.Background()
	fallback := slog.New(slog.NewTextHandler(os.Stderr, nil))

	assert.Same(t, fallback, FromContextOrDefault(ctx, fallback))
	assert.Equal(t, slog.Default(), FromContextOrDefault(ctx, nil))

	attached := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx = WithLogger(ctx, attached)
	assert.Same(t, attached, FromContextOrDefault(ctx, fallback))
}
