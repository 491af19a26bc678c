package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	for _, ok := range []string{"+1234567890", "+1 (555) 123-4567", "44 20 7946 0958"} {
		assert.True(t, ValidatePhone(ok), ok)
	}
	for _, bad := range []string{"", "+0123", "phone", "+1234567890123456"} {
		assert.False(t, ValidatePhone(bad), bad)
	}
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "owner@test.com", NormalizeEmail("  Owner@Test.COM "))
	assert.True(t, ValidateEmail("owner@test.com"))
	assert.True(t, ValidateEmail("kitchen@5f0c.local"))
	assert.False(t, ValidateEmail("Owner <owner@test.com>"))
	assert.False(t, ValidateEmail("owner"))
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 0.3, RoundCents(0.1+0.2))
	assert.Equal(t, 61.0, RoundCents(15.5*2+10*3))
	assert.Equal(t, 10.13, RoundCents(10.125000001))
}

func TestDayWindows(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	days := DayWindows(now, 3)
	assert.Equal(t, []time.Time{
		time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	}, days)
	assert.Equal(t, 2, DaysBetween(days[0], now))
}
