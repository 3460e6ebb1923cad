package models

import "fmt"

// Summary holds the running totals of a census
type Summary struct {
	Episodes        int
	TotalDurationMs int64
}

// Add accounts for one more episode
func (s *Summary) Add(ep Episode) {
	s.Episodes++
	s.TotalDurationMs += ep.DurationMs
}

// Seconds returns the total runtime in whole seconds
func (s Summary) Seconds() int64 {
	return s.TotalDurationMs / 1000
}

// Hours returns the total runtime in hours, rounded down
func (s Summary) Hours() int64 {
	return s.Seconds() / 3600
}

// Minutes returns the minutes remaining after Hours, rounded down
func (s Summary) Minutes() int64 {
	return (s.Seconds() % 3600) / 60
}

// String renders the human-readable summary line
func (s Summary) String() string {
	return fmt.Sprintf("%d episodes, totaling %d hours, %d minutes", s.Episodes, s.Hours(), s.Minutes())
}
