// ABOUTME: Database operations for sync_state and sync_log tables
// ABOUTME: Tracks importer status per service and which remote records were already imported
package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/kith/models"
)

const syncStateColumns = `service, last_sync_time, last_sync_token, status, error_message, created_at, updated_at`

// GetSyncState returns nil when the service has never synced.
func GetSyncState(db *sql.DB, service string) (*models.SyncState, error) {
	state, err := scanSyncState(db.QueryRow(`SELECT `+syncStateColumns+` FROM sync_state WHERE service = ?`, service))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync state: %w", err)
	}
	return state, nil
}

func GetAllSyncStates(db *sql.DB) ([]models.SyncState, error) {
	rows, err := db.Query(`SELECT ` + syncStateColumns + ` FROM sync_state ORDER BY service`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync states: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var states []models.SyncState
	for rows.Next() {
		state, err := scanSyncState(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync state: %w", err)
		}
		states = append(states, *state)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sync states: %w", err)
	}

	return states, nil
}

func scanSyncState(row rowScanner) (*models.SyncState, error) {
	var state models.SyncState
	var lastSyncTime sql.NullTime
	var lastSyncToken, status, errorMessage sql.NullString

	err := row.Scan(&state.Service, &lastSyncTime, &lastSyncToken, &status, &errorMessage, &state.CreatedAt, &state.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if lastSyncTime.Valid {
		state.LastSyncTime = &lastSyncTime.Time
	}
	state.LastSyncToken = lastSyncToken.String
	state.Status = status.String
	state.ErrorMessage = errorMessage.String

	return &state, nil
}

// UpdateSyncStatus records a status change. An empty errorMsg clears the error.
func UpdateSyncStatus(db *sql.DB, service, status, errorMsg string) error {
	var errorMsgVal sql.NullString
	if errorMsg != "" {
		errorMsgVal = sql.NullString{String: errorMsg, Valid: true}
	}

	_, err := db.Exec(`
		INSERT INTO sync_state (service, status, error_message, created_at, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(service) DO UPDATE SET
			status = excluded.status,
			error_message = excluded.error_message,
			updated_at = CURRENT_TIMESTAMP
	`, service, status, errorMsgVal)
	if err != nil {
		return fmt.Errorf("failed to update sync status: %w", err)
	}

	return nil
}

// MarkSynced stamps a successful run and stores the service's resume token.
func MarkSynced(db *sql.DB, service, token string) error {
	_, err := db.Exec(`
		INSERT INTO sync_state (service, last_sync_time, last_sync_token, status, created_at, updated_at)
		VALUES (?, CURRENT_TIMESTAMP, ?, 'idle', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(service) DO UPDATE SET
			last_sync_time = CURRENT_TIMESTAMP,
			last_sync_token = excluded.last_sync_token,
			status = 'idle',
			error_message = NULL,
			updated_at = CURRENT_TIMESTAMP
	`, service, token)
	if err != nil {
		return fmt.Errorf("failed to mark sync complete: %w", err)
	}

	return nil
}

// CheckSyncLogExists reports whether a remote record was already imported.
func CheckSyncLogExists(db *sql.DB, sourceService, sourceID string) (bool, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM sync_log WHERE source_service = ? AND source_id = ?
	`, sourceService, sourceID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check sync log: %w", err)
	}

	return count > 0, nil
}

// GetSyncedEntityID returns the local entity a remote record was imported as,
// or "" when it was never imported.
func GetSyncedEntityID(db *sql.DB, sourceService, sourceID string) (string, error) {
	var entityID string
	err := db.QueryRow(`
		SELECT entity_id FROM sync_log WHERE source_service = ? AND source_id = ?
	`, sourceService, sourceID).Scan(&entityID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read sync log: %w", err)
	}
	return entityID, nil
}

// LogSync records that a remote record became a local entity.
func LogSync(db *sql.DB, sourceService, sourceID, entityType, entityID, metadata string) error {
	_, err := db.Exec(`
		INSERT INTO sync_log (id, source_service, source_id, entity_type, entity_id, imported_at, metadata)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, ?)
	`, uuid.NewString(), sourceService, sourceID, entityType, entityID, metadata)
	if err != nil {
		return fmt.Errorf("failed to create sync log: %w", err)
	}

	return nil
}
