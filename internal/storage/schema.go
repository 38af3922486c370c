package storage

import "time"

// PositionRecord is a named board snapshot
type PositionRecord struct {
	PositionID string    `db:"position_id"`
	Name       string    `db:"name"`
	Placement  string    `db:"placement"`
	CreatedAt  time.Time `db:"created_at"`
}

// RenderRecord is one entry of the render log
type RenderRecord struct {
	RenderID   int64     `db:"render_id"`
	Placement  string    `db:"placement"`
	Format     string    `db:"format"`
	Theme      string    `db:"theme"`
	RenderedAt time.Time `db:"rendered_at"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS positions (
	position_id TEXT PRIMARY KEY,
	name TEXT NOT NULL COLLATE NOCASE,
	placement TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_positions_name ON positions(name);

CREATE TABLE IF NOT EXISTS renders (
	render_id INTEGER PRIMARY KEY AUTOINCREMENT,
	placement TEXT NOT NULL,
	format TEXT NOT NULL,
	theme TEXT NOT NULL DEFAULT '',
	rendered_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_renders_rendered_at ON renders(rendered_at);
`
