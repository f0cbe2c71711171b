package calc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthKeys(t *testing.T) {
	assert.Equal(t, "2025-10", MonthKey(time.Date(2025, 10, 31, 23, 0, 0, 0, time.UTC)))
	assert.True(t, ValidMonthKey("2025-01"))
	assert.False(t, ValidMonthKey("2025-13"))
	assert.False(t, ValidMonthKey("10-2025"))

	start, err := ParseMonthKey("2025-02", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), start)

	_, err = ParseMonthKey("nope", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidMonthKey)
}

func TestShiftMonth(t *testing.T) {
	next, err := ShiftMonth("2025-12", 1)
	require.NoError(t, err)
	assert.Equal(t, "2026-01", next)

	prev, err := ShiftMonth("2025-01", -1)
	require.NoError(t, err)
	assert.Equal(t, "2024-12", prev)

	_, err = ShiftMonth("x", 1)
	assert.Error(t, err)
}

func TestDefaultEntryDate(t *testing.T) {
	now := time.Date(2025, 10, 18, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, now, DefaultEntryDate("2025-10", now))
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), DefaultEntryDate("2025-09", now))
	assert.Equal(t, now, DefaultEntryDate("bad", now))
	assert.True(t, InMonth(now, "2025-10"))
}
