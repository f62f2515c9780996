package domain

import "time"

// Department groups users for display and reporting.
type Department struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
