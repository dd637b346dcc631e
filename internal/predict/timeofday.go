// ABOUTME: Wall-clock arithmetic on HH:MM:SS strings
// ABOUTME: Times wrap at midnight the way a clock face does

package predict

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// clockSeconds parses "HH:MM:SS" leniently: missing or non-numeric parts
// count as zero. The bool reports whether at least hours and minutes were
// present.
func clockSeconds(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	var hms [3]int
	for i := 0; i < len(parts) && i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err == nil {
			hms[i] = n
		}
	}
	return hms[0]*3600 + hms[1]*60 + hms[2], len(parts) >= 2
}

// addClock advances an HH:MM:SS time by d and formats the result
func addClock(base int, d time.Duration) string {
	total := (base + int(d/time.Second)) % secondsPerDay
	if total < 0 {
		total += secondsPerDay
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}

func timeOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
