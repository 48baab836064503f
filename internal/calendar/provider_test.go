package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStaticProvider_Weekends(t *testing.T) {
	p := NewStaticProvider(nil, nil)
	ctx := context.Background()

	saturday := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	got, err := p.IsNonWorkingDay(ctx, saturday, "ID")
	assert.NoError(t, err)
	assert.True(t, got)

	got, err = p.IsNonWorkingDay(ctx, monday, "ID")
	assert.NoError(t, err)
	assert.False(t, got)
}

func TestStaticProvider_HolidaysPerCountry(t *testing.T) {
	p := NewStaticProvider(nil, map[string][]string{
		"ID": {"2025-08-17"},
	})
	ctx := context.Background()

	independence := time.Date(2025, 8, 17, 0, 0, 0, 0, time.UTC)

	got, err := p.IsNonWorkingDay(ctx, independence, "ID")
	assert.NoError(t, err)
	assert.True(t, got)

	// Same date, different country calendar.
	got, err = p.IsNonWorkingDay(ctx, independence, "SG")
	assert.NoError(t, err)
	assert.True(t, got) // still a Sunday
}
