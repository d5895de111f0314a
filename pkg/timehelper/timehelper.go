package timehelper

import "time"

// SyncLayout is the timestamp format stored in the tournament sync
// bookkeeping fields and accepted by the upstream updated= filter.
const SyncLayout = "2006-01-02 15:04:05"

func FormatSyncTime(t time.Time) string {
	return t.Format(SyncLayout)
}

func ParseSyncTime(s string) (time.Time, error) {
	return time.Parse(SyncLayout, s)
}

func GetTodaysDateString() string {
	// Format the date to 'YYYY-MM-DD'
	return time.Now().Format("2006-01-02")
}
