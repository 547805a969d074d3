package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-arcade/internal/config"
)

func TestNew(t *testing.T) {
	t.Run("development", func(t *testing.T) {
		var buf bytes.Buffer
		log, err := New(&config.Config{Mode: "development"}, &buf)
		require.NoError(t, err)
		assert.Equal(t, logrus.DebugLevel, log.GetLevel())

		log.WithField("round", "r1").Debug("tick")
		assert.Contains(t, buf.String(), "msg=tick")
		assert.Contains(t, buf.String(), "round=r1")
	})

	t.Run("production", func(t *testing.T) {
		var buf bytes.Buffer
		log, err := New(&config.Config{Mode: "production"}, &buf)
		require.NoError(t, err)
		assert.Equal(t, logrus.InfoLevel, log.GetLevel())

		log.Debug("hidden")
		log.WithField("round", "r1").Info("round started")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "round started", entry["msg"])
		assert.Equal(t, "r1", entry["round"])
	})

	t.Run("invalid level", func(t *testing.T) {
		cfg := &config.Config{Log: config.LogConfig{Level: "loud"}}
		_, err := New(cfg, &bytes.Buffer{})
		assert.Error(t, err)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "server.log")
		cfg := &config.Config{
			Mode: "production",
			Log:  config.LogConfig{File: path, MaxSize: 1},
		}
		log, err := New(cfg, &bytes.Buffer{})
		require.NoError(t, err)

		log.Warn("written to file")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "written to file")
	})
}
