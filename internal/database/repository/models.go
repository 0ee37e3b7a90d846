package repository

import "time"

// Source is a named list of items.
type Source struct {
	ID        string
	Name      string
	SortOrder int
}

// Item represents an items row.
type Item struct {
	ID        int64
	SourceID  string
	Title     string
	Done      bool
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}
