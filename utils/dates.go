// utils/dates.go
package utils

import "time"

// BeginningOfDay truncates t to midnight in its own location, used to
// compare booking dates against today.
func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
