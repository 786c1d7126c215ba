package logging

import (
	"testing"

	"github.com/go-kit/log/level"
	"github.com/stretchr/testify/assert"
)

func TestNewReturnsNonNilLoggerForEveryLevelName(t *testing.T) {
	for _, name := range []string{"debug", "info", "warn", "error", "", "bogus"} {
		logger := New(name)
		assert.NotNil(t, logger)
		assert.NoError(t, level.Info(logger).Log("msg", "smoke test", "level", name))
	}
}
