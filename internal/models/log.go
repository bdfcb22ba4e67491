package models

// LogEntry is one parsed row of the daily application log.
type LogEntry struct {
	Time    string
	Thread  string
	Level   string
	Message string
}
