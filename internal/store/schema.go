package store

// schema is the ordered list of schema steps. The database's PRAGMA
// user_version records how many have been applied; append new steps, never
// edit an existing one.
var schema = []string{
	`
	-- One row per completed game
	CREATE TABLE games (
		id TEXT PRIMARY KEY,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		initial_map_json TEXT NOT NULL,
		turn_outcomes_json TEXT NOT NULL,
		final_ranks_json TEXT NOT NULL
	);
	CREATE INDEX idx_games_created ON games(created_at);
	`,
}
