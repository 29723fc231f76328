package testutil

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("Sales file loaded", slog.Int("rows", 3))
		logger.Warn("Dropped rows with invalid dates", slog.String("column", "ORDERDATE"))

		require.Equal(t, 2, handler.Count())
		assert.True(t, handler.ContainsMessage("file loaded"))
		assert.True(t, handler.ContainsAttr("column", "ORDERDATE"))
		assert.True(t, handler.ContainsAttr("rows", int64(3)))

		e, ok := handler.Find(slog.LevelWarn, "invalid dates")
		require.True(t, ok)
		assert.Equal(t, "ORDERDATE", e.Attrs["column"])

		_, ok = handler.Find(slog.LevelError, "invalid dates")
		assert.False(t, ok)
	})

	t.Run("derived loggers share the buffer", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With(slog.String("component", "loader")).Info("loaded")
		logger.WithGroup("chart").Info("written", slog.String("slug", "top_products"))
		logger.Info("grouped", slog.Group("step", slog.String("id", "clean")))

		assert.Equal(t, 3, handler.Count())
		assert.True(t, handler.ContainsAttr("component", "loader"))
		assert.True(t, handler.ContainsAttr("chart.slug", "top_products"))
		assert.True(t, handler.ContainsAttr("step.id", "clean"))
	})

	t.Run("assertion helpers", func(t *testing.T) {
		logger, handler := NewTestLogger(t)
		logger.Info("Chart written", slog.String("chart", "monthly_sales_trend"))

		AssertLogContains(t, handler, slog.LevelInfo, "Chart written")
		AssertLogAttr(t, handler, "chart", "monthly_sales_trend")
	})

	t.Run("concurrent logging", func(t *testing.T) {
		logger, handler := NewTestLogger(nil)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				logger.Info("concurrent", slog.Int("n", n))
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 10, handler.Count())
	})
}
