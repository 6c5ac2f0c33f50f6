package store

// Schema is applied every time a SQLite store is opened.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	identity TEXT PRIMARY KEY,
	password_hash TEXT NOT NULL DEFAULT '',
	initial_balance TEXT NOT NULL DEFAULT '0',
	currency TEXT NOT NULL DEFAULT '$'
);

CREATE TABLE IF NOT EXISTS trades (
	identity TEXT NOT NULL,
	seq INTEGER NOT NULL,
	trade_id TEXT NOT NULL,
	date TEXT NOT NULL,
	pair TEXT NOT NULL,
	strategy TEXT NOT NULL,
	outcome TEXT NOT NULL,
	amount TEXT NOT NULL,
	notes TEXT NOT NULL,
	attachment TEXT NOT NULL,
	PRIMARY KEY (identity, seq)
);

CREATE INDEX IF NOT EXISTS idx_trades_identity ON trades(identity);
`
