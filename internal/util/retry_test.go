package util

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRetry(t *testing.T) {
	t.Run("first attempt succeeds without sleeping", func(t *testing.T) {
		slept := []time.Duration{}
		calls := 0

		err := Retry(func() error {
			calls++
			return nil
		}, 3, time.Second, func(d time.Duration) { slept = append(slept, d) })

		require.NoError(t, err)
		require.Equal(t, 1, calls)
		require.Empty(t, slept)
	})

	t.Run("delay doubles between attempts", func(t *testing.T) {
		slept := []time.Duration{}
		calls := 0

		err := Retry(func() error {
			calls++
			if calls < 3 {
				return errors.New("flaky")
			}
			return nil
		}, 5, time.Second, func(d time.Duration) { slept = append(slept, d) })

		require.NoError(t, err)
		require.Equal(t, 3, calls)
		require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, slept)
	})

	t.Run("exhausted attempts wrap the last error", func(t *testing.T) {
		cause := errors.New("still down")
		calls := 0

		err := Retry(func() error {
			calls++
			return cause
		}, 3, time.Second, func(time.Duration) {})

		require.ErrorIs(t, err, cause)
		require.Equal(t, 3, calls)
		require.Contains(t, err.Error(), "exhausted 3 attempts")
	})

	t.Run("rejects a zero attempt budget", func(t *testing.T) {
		err := Retry(func() error { return nil }, 0, time.Second, func(time.Duration) {})
		require.Error(t, err)
	})
}
