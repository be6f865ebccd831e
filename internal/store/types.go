package store

import "time"

// Dataset describes a stored transaction dataset.
type Dataset struct {
	Name             string
	Source           string // file the dataset was imported from
	ImportedAt       time.Time
	TransactionCount int
}
