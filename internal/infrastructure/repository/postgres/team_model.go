package postgres

import "time"

type teamTableModel struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Tag          string    `db:"tag"`
	IsFreeAgents bool      `db:"is_free_agents"`
	CreatedAt    time.Time `db:"created_at"`
}
