package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidCivilDate(t *testing.T) {
	valid := []string{"2026-08-31", "2000-01-01", "2026-12-31"}
	for _, s := range valid {
		assert.True(t, ValidCivilDate(s), "date %q", s)
	}

	invalid := []string{"", "2026-13-01", "2026-02-30", "31-08-2026", "2026/08/31", "2026-8-31", "tomorrow"}
	for _, s := range invalid {
		assert.False(t, ValidCivilDate(s), "date %q", s)
	}
}

func TestNextDays(t *testing.T) {
	days := NextDays(3)
	require.Len(t, days, 3)

	assert.Equal(t, Today(), days[0])
	for i, day := range days {
		parsed, err := time.Parse(CivilDateLayout, day)
		require.NoError(t, err)
		if i > 0 {
			prev, _ := time.Parse(CivilDateLayout, days[i-1])
			assert.Equal(t, 24*time.Hour, parsed.Sub(prev))
		}
	}
}

func TestNextDaysSortOrder(t *testing.T) {
	// Civil dates sort lexicographically; queries rely on string comparison.
	days := NextDays(5)
	for i := 1; i < len(days); i++ {
		assert.Less(t, days[i-1], days[i])
	}
}
