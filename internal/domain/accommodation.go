package domain

import "time"

type Accommodation struct {
	ID          int64
	HostID      int64
	Name        string
	Description string
	BasePrice   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Member struct {
	ID        int64
	Email     string
	Nickname  string
	CreatedAt time.Time
}
