package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMonthKey(t *testing.T) {
	require.Equal(t, "2025-11", MonthKey(time.Date(2025, 11, 28, 13, 0, 0, 0, time.Local)))
	require.Equal(t, "2026-01", MonthKey(time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)))
}

func TestWindow(t *testing.T) {
	at := time.Date(2025, 11, 28, 13, 45, 0, 0, time.Local)
	require.Equal(t, "2025-11-01", WindowStart(at))
	require.Equal(t, "2025-11-28T23:59:59", WindowEnd(at))

	firstDay := time.Date(2025, 11, 1, 0, 0, 1, 0, time.Local)
	require.Equal(t, "2025-11-01", WindowStart(firstDay))
	require.Equal(t, "2025-11-01T23:59:59", WindowEnd(firstDay))
}
