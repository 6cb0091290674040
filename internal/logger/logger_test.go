package logger_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/wordflash/internal/logger"
)

func TestLookupLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected logger.Level
		ok       bool
	}{
		{"DEBUG", logger.DEBUG, true},
		{"info", logger.INFO, true},
		{"Warning", logger.WARN, true},
		{"ERROR", logger.ERROR, true},
		{"verbose", logger.INFO, false},
		{"", logger.INFO, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			level, ok := logger.LookupLevel(tt.in)
			assert.Equal(t, tt.expected, level)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(logger.WARN), logger.WithColors(false))

	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("shown %d", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "shown 1")
}

func TestLogger_PrefixAndSortedFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithColors(false)).
		WithPrefix("card_repo").
		WithFields(map[string]any{"word": "apple", "profile_id": 3})

	log.Info("card saved")

	line := strings.TrimSpace(buf.String())
	assert.Contains(t, line, "[card_repo]")
	assert.Contains(t, line, "logger_test.go")
	assert.True(t, strings.HasSuffix(line, "card saved profile_id=3 word=apple"), line)
}

func TestLogger_ChildDoesNotLeakFields(t *testing.T) {
	var buf bytes.Buffer
	parent := logger.New(logger.WithOutput(&buf), logger.WithColors(false))
	_ = parent.WithField("request_id", "abc")

	parent.Info("plain")

	assert.NotContains(t, buf.String(), "request_id")
}

func TestContextRoundTrip(t *testing.T) {
	l := logger.New(logger.WithPrefix("ctx"))
	ctx := logger.NewContext(context.Background(), l)

	assert.Same(t, l, logger.FromContext(ctx))
	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))
}
