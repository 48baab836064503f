package attendance

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config carries the working-day thresholds. It is assembled once at process
// start and injected; nothing reloads or mutates it afterwards.
type Config struct {
	// EarliestCheckInMinutes is the first allowed check-in, in minutes since
	// midnight local time.
	EarliestCheckInMinutes int
	// HalfDayCutoffMinutes marks the late-arrival boundary: checking in
	// strictly after it degrades the day to a half day.
	HalfDayCutoffMinutes int
	// FullDayHours is the required worked-hours threshold for a normal day.
	FullDayHours float64
	// HalfDayHours is the reduced threshold applied when the day is a half day.
	HalfDayHours float64
}

func DefaultConfig() Config {
	return Config{
		EarliestCheckInMinutes: 9*60 + 30,
		HalfDayCutoffMinutes:   11*60 + 30,
		FullDayHours:           9,
		HalfDayHours:           5,
	}
}

// LoadConfigFromEnv reads overrides from the environment, falling back to the
// defaults field by field. Clock values use HH:MM.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("ATTENDANCE_EARLIEST_CHECK_IN"); v != "" {
		minutes, err := parseClock(v)
		if err != nil {
			return Config{}, fmt.Errorf("ATTENDANCE_EARLIEST_CHECK_IN: %w", err)
		}
		cfg.EarliestCheckInMinutes = minutes
	}
	if v := os.Getenv("ATTENDANCE_HALF_DAY_CUTOFF"); v != "" {
		minutes, err := parseClock(v)
		if err != nil {
			return Config{}, fmt.Errorf("ATTENDANCE_HALF_DAY_CUTOFF: %w", err)
		}
		cfg.HalfDayCutoffMinutes = minutes
	}
	if v := os.Getenv("ATTENDANCE_FULL_DAY_HOURS"); v != "" {
		hours, err := strconv.ParseFloat(v, 64)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("ATTENDANCE_FULL_DAY_HOURS: invalid value %q", v)
		}
		cfg.FullDayHours = hours
	}
	if v := os.Getenv("ATTENDANCE_HALF_DAY_HOURS"); v != "" {
		hours, err := strconv.ParseFloat(v, 64)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("ATTENDANCE_HALF_DAY_HOURS: invalid value %q", v)
		}
		cfg.HalfDayHours = hours
	}

	if cfg.HalfDayCutoffMinutes < cfg.EarliestCheckInMinutes {
		return Config{}, fmt.Errorf("half-day cutoff %d precedes earliest check-in %d", cfg.HalfDayCutoffMinutes, cfg.EarliestCheckInMinutes)
	}
	if cfg.HalfDayHours > cfg.FullDayHours {
		return Config{}, fmt.Errorf("half-day threshold %.2f exceeds full-day threshold %.2f", cfg.HalfDayHours, cfg.FullDayHours)
	}

	return cfg, nil
}

func parseClock(v string) (int, error) {
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("expected HH:MM, got %q", v)
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil || hh < 0 || hh > 23 {
		return 0, fmt.Errorf("invalid hour in %q", v)
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("invalid minute in %q", v)
	}
	return hh*60 + mm, nil
}
