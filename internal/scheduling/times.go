package scheduling

import (
	"fmt"
	"strconv"
	"strings"
)

// businessSlots is the fixed hourly probe catalog across the business
// day, 08:00 through 17:00.
func businessSlots() []string {
	slots := make([]string, 0, 10)
	for hour := 8; hour < 18; hour++ {
		slots = append(slots, fmt.Sprintf("%02d:00", hour))
	}
	return slots
}

// clockMinutes parses a 24-hour HH:MM string into minutes since
// midnight.
func clockMinutes(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("scheduling: malformed time %q", clock)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("scheduling: malformed time %q", clock)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("scheduling: malformed time %q", clock)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("scheduling: time out of range %q", clock)
	}
	return hours*60 + minutes, nil
}

// overlaps reports whether [startA, startA+durA) and
// [startB, startB+durB) intersect, with starts in minutes since
// midnight and durations in minutes.
func overlaps(startA, durA, startB, durB int) bool {
	return startA < startB+durB && startB < startA+durA
}
