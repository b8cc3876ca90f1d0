package models

import "time"

// Holiday is a single non-working calendar date that shifts the weekend
// staffing rules (Friday-before-a-Monday-holiday cadence, etc.).
type Holiday struct {
	Date time.Time `json:"date"`
	Name string    `json:"name,omitempty"`
}
