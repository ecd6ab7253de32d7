package models

import "time"

type Author struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Cluster is a topical grouping of posts, used for filtering
type Cluster struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Slug          string    `json:"slug" db:"slug"`
	PillarKeyword string    `json:"pillarKeyword" db:"pillar_keyword"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
