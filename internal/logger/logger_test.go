package logger

import (
	"os"
	"path/filepath"
	"testing"

	"gst_billing/internal/conf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("writes to rotated file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "app.log")
		l, cleanup, err := NewLogger(&conf.LogConfig{Level: "info", Filename: file, MaxSize: 1}, "prod")
		require.NoError(t, err)

		l.Info("bill issued")
		l.Debug("dropped")
		cleanup()

		data, err := os.ReadFile(file)
		require.NoError(t, err)
		assert.Contains(t, string(data), "bill issued")
		assert.NotContains(t, string(data), "dropped")
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		_, _, err := NewLogger(&conf.LogConfig{Level: "loud"}, "dev")
		assert.Error(t, err)
	})
}
