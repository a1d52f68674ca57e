package store

// schemaVersion is the target schema version for this build.
const schemaVersion = 1

const schemaV1 = `
CREATE TABLE schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE analyses (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at  TEXT NOT NULL,
	source      TEXT NOT NULL,
	treatments  TEXT NOT NULL,
	outcomes    TEXT NOT NULL,
	identified  INTEGER NOT NULL,
	summary     TEXT NOT NULL
);

CREATE INDEX idx_analyses_created ON analyses(created_at);
`
