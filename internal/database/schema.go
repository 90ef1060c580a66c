package database

// sqliteSchema mirrors the postgres migrations for the embedded backend
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS submissions (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT NOT NULL UNIQUE,
	article_url TEXT NOT NULL,
	status      TEXT NOT NULL,
	failed_step TEXT NOT NULL DEFAULT '',
	source      TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
