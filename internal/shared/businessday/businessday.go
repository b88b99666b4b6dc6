// Package businessday turns a server-side UTC instant into the calendar day
// the requesting client is living in. Every place that buckets events by
// "today" must go through For; bucketing on server-local time misfiles
// punches near midnight for clients in other timezones.
package businessday

import "time"

// For returns the client-local calendar date (midnight UTC of that date) for
// a server instant and a client timezone offset in minutes, as reported by
// JavaScript's Date.getTimezoneOffset: positive west of UTC. An offset of 0
// means plain UTC bucketing.
func For(serverNowUTC time.Time, clientOffsetMinutes int) time.Time {
	local := serverNowUTC.UTC().Add(-time.Duration(clientOffsetMinutes) * time.Minute)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// Key formats the bucketed date the way attendance rows are keyed.
func Key(serverNowUTC time.Time, clientOffsetMinutes int) string {
	return For(serverNowUTC, clientOffsetMinutes).Format("2006-01-02")
}
