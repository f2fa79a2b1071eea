package logging

import (
	"bytes"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerSingleton(t *testing.T) {
	a := NewLogger("test-component")
	b := NewLogger("test-component")
	assert.Same(t, a, b, "same component should return the same entry")

	c := NewLogger("other-component")
	assert.NotSame(t, a, c)
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&TextFormatter{DisableTimestamp: true})

	logger.WithField("component", "hub").WithField("session", "abc").Warn("queue full")

	out := buf.String()
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "hub")
	assert.Contains(t, out, "queue full")
	assert.Contains(t, out, "session=abc")
}

func TestTextFormatterTimestamp(t *testing.T) {
	f := &TextFormatter{}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "hello",
		Data:    logrus.Fields{},
	}
	out, err := f.Format(entry)
	require.NoError(t, err)
	assert.Contains(t, string(out), "2026-03-14 09:30:00")
}
