package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadConfigFromEnv()

	assert.NoError(t, err)
	assert.Equal(t, 9*60+30, cfg.EarliestCheckInMinutes)
	assert.Equal(t, 11*60+30, cfg.HalfDayCutoffMinutes)
	assert.Equal(t, 9.0, cfg.FullDayHours)
	assert.Equal(t, 5.0, cfg.HalfDayHours)
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("ATTENDANCE_EARLIEST_CHECK_IN", "08:00")
	t.Setenv("ATTENDANCE_HALF_DAY_CUTOFF", "12:00")
	t.Setenv("ATTENDANCE_FULL_DAY_HOURS", "8")
	t.Setenv("ATTENDANCE_HALF_DAY_HOURS", "4")

	cfg, err := LoadConfigFromEnv()

	assert.NoError(t, err)
	assert.Equal(t, 8*60, cfg.EarliestCheckInMinutes)
	assert.Equal(t, 12*60, cfg.HalfDayCutoffMinutes)
	assert.Equal(t, 8.0, cfg.FullDayHours)
	assert.Equal(t, 4.0, cfg.HalfDayHours)
}

func TestLoadConfigFromEnv_RejectsInvertedWindow(t *testing.T) {
	t.Setenv("ATTENDANCE_EARLIEST_CHECK_IN", "13:00")
	t.Setenv("ATTENDANCE_HALF_DAY_CUTOFF", "11:30")

	_, err := LoadConfigFromEnv()
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	minutes, err := parseClock("09:30")
	assert.NoError(t, err)
	assert.Equal(t, 570, minutes)

	_, err = parseClock("24:00")
	assert.Error(t, err)

	_, err = parseClock("930")
	assert.Error(t, err)
}
