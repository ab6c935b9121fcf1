package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/confsync/logger"
)

func TestNew_JSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithAttr(slog.String("service", "confsync")),
	)

	log.Info("hello", logger.Namespace("billing"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "confsync", record["service"])
	assert.Equal(t, "billing", record["namespace"])
}

func TestNew_TextOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithFormat(logger.FormatText),
	)

	log.Info("hello", logger.Key("rate-limit"))

	out := buf.String()
	assert.Contains(t, out, "msg=hello")
	assert.Contains(t, out, "key=rate-limit")
}

func TestNew_LevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithLevel(slog.LevelWarn),
	)

	log.Debug("dropped")
	log.Info("dropped too")
	log.Warn("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestWithFormat_PanicsOnUnknown(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		logger.New(logger.WithFormat(logger.Format("xml")))
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewFromConfig(
		logger.Config{Level: "debug", Format: "text"},
		logger.WithOutput(&buf),
	)

	log.Debug("visible")
	assert.Contains(t, buf.String(), "visible")

	// Unknown values fall back to defaults instead of failing.
	assert.NotPanics(t, func() {
		logger.NewFromConfig(logger.Config{Level: "loud", Format: "xml"}, logger.WithOutput(&buf))
	})
}

func TestAttrHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))

	err := errors.New("boom")
	attr := logger.Error(err)
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.Equal(t, "instance", logger.Instance("abc").Key)
	assert.Equal(t, "channel", logger.Channel("confsync:set:ns").Key)
}
