package agr

import (
	"context"
	"testing"
	"time"

	"agr-scraper/utils"

	"github.com/stretchr/testify/require"
)

func TestNavigateOnceBoundsHungAttempt(t *testing.T) {
	start := time.Now()
	err := navigateOnce(context.Background(), 30*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestNavigateOnceReleasesDeadlineOnSuccess(t *testing.T) {
	err := navigateOnce(context.Background(), time.Minute, func(ctx context.Context) error {
		require.NoError(t, ctx.Err())
		return nil
	})
	require.NoError(t, err)
}

// Hung attempts must consume the retry budget the same way hard errors do.
func TestHungAttemptsConsumeRetryBudget(t *testing.T) {
	attempts := 0
	err := utils.RetryFixedDelay(2, time.Millisecond, utils.NewLogger(), func() error {
		attempts++
		return navigateOnce(context.Background(), 10*time.Millisecond, func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
	})
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, 3, attempts)
}

func TestBrowserFlagsDisableImages(t *testing.T) {
	found := false
	for _, f := range browserFlags {
		if f.name == "blink-settings" {
			require.Equal(t, "imagesEnabled=false", f.value)
			found = true
		}
	}
	require.True(t, found, "image loading must be disabled at launch")
}
