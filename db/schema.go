// ABOUTME: Database schema definitions
// ABOUTME: Creates contacts, interactions, reminders and sync bookkeeping tables
package db

import (
	"database/sql"
)

// Calendar dates are stored as YYYY-MM-DD text so they never shift with the
// local zone. date_logged is an RFC 3339 timestamp.
const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id TEXT PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL DEFAULT '',
	relationship_class TEXT NOT NULL CHECK(relationship_class IN ('friend', 'network')),
	cadence_tier TEXT NOT NULL,
	origin_note TEXT NOT NULL DEFAULT '',
	birthday TEXT,
	preferred_contact_method TEXT NOT NULL DEFAULT 'text',
	email TEXT NOT NULL DEFAULT '',
	date_added TEXT NOT NULL,
	last_interaction_date TEXT,
	last_interaction_note TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_contacts_class ON contacts(relationship_class);
CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(email);

CREATE TABLE IF NOT EXISTS interactions (
	id TEXT PRIMARY KEY,
	contact_id TEXT NOT NULL,
	date_of_interaction TEXT NOT NULL,
	date_logged TEXT NOT NULL,
	interaction_type TEXT NOT NULL CHECK(interaction_type IN ('call', 'facetime', 'text', 'email', 'in_person')),
	notes TEXT NOT NULL DEFAULT '',
	FOREIGN KEY (contact_id) REFERENCES contacts(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_interactions_contact ON interactions(contact_id);
CREATE INDEX IF NOT EXISTS idx_interactions_date ON interactions(date_of_interaction DESC);

CREATE TABLE IF NOT EXISTS reminders (
	id TEXT PRIMARY KEY,
	label TEXT NOT NULL,
	date TEXT NOT NULL,
	recurring INTEGER NOT NULL DEFAULT 0,
	contact_id TEXT,
	created_at TEXT NOT NULL,
	FOREIGN KEY (contact_id) REFERENCES contacts(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_reminders_date ON reminders(date);

CREATE TABLE IF NOT EXISTS sync_state (
	service TEXT PRIMARY KEY,
	last_sync_time DATETIME,
	last_sync_token TEXT,
	status TEXT CHECK(status IN ('idle', 'syncing', 'error')),
	error_message TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sync_log (
	id TEXT PRIMARY KEY,
	source_service TEXT NOT NULL,
	source_id TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	imported_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	metadata TEXT,
	UNIQUE(source_service, source_id)
);

CREATE INDEX IF NOT EXISTS idx_sync_log_entity ON sync_log(entity_type, entity_id);

CREATE TABLE IF NOT EXISTS pending_interactions (
	source_service TEXT NOT NULL,
	source_id TEXT NOT NULL,
	event_id TEXT NOT NULL,
	contact_id TEXT NOT NULL,
	date_of_interaction TEXT NOT NULL,
	interaction_type TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (source_service, source_id),
	FOREIGN KEY (contact_id) REFERENCES contacts(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_pending_event ON pending_interactions(source_service, event_id);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
