package usecases

import (
	"fmt"
	"strings"
	"time"
)

// MilitaryTime formats t as "1504 hrs".
func MilitaryTime(t time.Time) string {
	return t.Format("1504") + " hrs"
}

// StatusLine builds a system banner such as "📡 *[1504 hrs] ONLINE:* msg".
// An empty icon defaults to the radio glyph.
func StatusLine(t time.Time, status, message, icon string) string {
	if icon == "" {
		icon = "📡"
	}
	return fmt.Sprintf("%s *[%s] %s:* %s", icon, MilitaryTime(t), strings.ToUpper(status), message)
}
