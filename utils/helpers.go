package utils

import (
	"fmt"
	"strconv"
	"time"
)

func IsValidInterval(interval string) bool {
	switch interval {
	case "Minute", "Hour", "Day", "Week", "Month", "Quarter", "Year":
		return true
	default:
		return false
	}
}

// ParseBoundedInt parses an optional positive integer query value. Empty input yields def.
func ParseBoundedInt(raw string, def, max int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("must be a positive integer")
	}
	if n > max {
		return 0, fmt.Errorf("must not exceed %d", max)
	}
	return n, nil
}

// ParseTimeRange parses optional RFC3339 start/end values, defaulting to the
// lookback window ending at now.
func ParseTimeRange(startParam, endParam string, lookback time.Duration, now time.Time) (start, end time.Time, err error) {
	end = now.UTC()
	if endParam != "" {
		if end, err = time.Parse(time.RFC3339, endParam); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid 'end' timestamp format. Use RFC3339 (e.g., 2006-01-02T15:04:05Z)")
		}
	}

	start = end.Add(-lookback)
	if startParam != "" {
		if start, err = time.Parse(time.RFC3339, startParam); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid 'start' timestamp format. Use RFC3339 (e.g., 2006-01-02T15:04:05Z)")
		}
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("'start' must not be after 'end'")
	}
	return start, end, nil
}
