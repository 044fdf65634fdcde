package specdoc

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopLogger(t *testing.T) {
	l := NopLogger{}

	t.Run("methods do nothing", func(t *testing.T) {
		l.Debug("msg", "key", "value")
		l.Info("msg")
		l.Warn("msg")
		l.Error("msg")
	})

	t.Run("With returns a NopLogger", func(t *testing.T) {
		_, ok := l.With("key", "value").(NopLogger)
		assert.True(t, ok)
	})
}

func TestSlogAdapter(t *testing.T) {
	newCapture := func() (*SlogAdapter, *bytes.Buffer) {
		var buf bytes.Buffer
		handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
		return NewSlogAdapter(slog.New(handler)), &buf
	}

	t.Run("nil falls back to the default logger", func(t *testing.T) {
		adapter := NewSlogAdapter(nil)
		require.NotNil(t, adapter.l)
	})

	t.Run("forwards messages and attributes", func(t *testing.T) {
		adapter, buf := newCapture()
		adapter.Debug("resolving reference", "ref", "#/components/schemas/Pet")
		out := buf.String()
		assert.Contains(t, out, "DEBUG")
		assert.Contains(t, out, "resolving reference")
		assert.Contains(t, out, "ref=#/components/schemas/Pet")
	})

	t.Run("levels map through", func(t *testing.T) {
		adapter, buf := newCapture()
		adapter.Info("i")
		adapter.Warn("w")
		adapter.Error("e")
		out := buf.String()
		assert.Contains(t, out, "INFO")
		assert.Contains(t, out, "WARN")
		assert.Contains(t, out, "ERROR")
	})

	t.Run("With prepends attributes to every record", func(t *testing.T) {
		adapter, buf := newCapture()
		scoped := adapter.With("component", "resolver")
		scoped.Debug("inlined", "ref", "#/definitions/Thing")
		out := buf.String()
		assert.Contains(t, out, "component=resolver")
		assert.Contains(t, out, "ref=#/definitions/Thing")
	})
}
