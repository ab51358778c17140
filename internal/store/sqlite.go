// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "staymate/internal/errors"
	"staymate/internal/models"
	"staymate/internal/notifications"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db        *sql.DB
	mu        sync.RWMutex
	syncTimes map[string]time.Time
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{
		db:        db,
		syncTimes: make(map[string]time.Time),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := store.loadSyncTimes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load sync times: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Last seen booking statuses, the notification diff snapshot
	CREATE TABLE IF NOT EXISTS booking_status (
		booking_id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Notification log
	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		message TEXT NOT NULL,
		booking_id TEXT NOT NULL,
		listing_id TEXT NOT NULL,
		requester TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		read INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_notifications_timestamp ON notifications(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_notifications_read ON notifications(read);

	-- Offline caches, JSON blobs keyed by entity id
	CREATE TABLE IF NOT EXISTS listing_cache (
		id TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS booking_cache (
		id TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Sync times
	CREATE TABLE IF NOT EXISTS sync_times (
		data_type TEXT PRIMARY KEY,
		last_sync DATETIME NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) loadSyncTimes() error {
	rows, err := s.db.Query(`SELECT data_type, last_sync FROM sync_times`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var dataType string
		var lastSync time.Time
		if err := rows.Scan(&dataType, &lastSync); err != nil {
			return err
		}
		s.syncTimes[dataType] = lastSync
	}
	return rows.Err()
}

// LoadBookingStatuses loads the persisted last-seen status map.
func (s *SQLiteStore) LoadBookingStatuses(ctx context.Context) (notifications.StatusMap, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT booking_id, status FROM booking_status`)
	if err != nil {
		return nil, apperrors.NewStoreError("load", "booking_status", err)
	}
	defer rows.Close()

	statuses := make(notifications.StatusMap)
	for rows.Next() {
		var id, status string
		if err := rows.Scan(&id, &status); err != nil {
			return nil, fmt.Errorf("scan booking status: %w", err)
		}
		statuses[id] = models.BookingStatus(status)
	}
	return statuses, rows.Err()
}

// SaveBookingStatuses replaces the snapshot wholesale in one transaction, so
// a crash mid-write never leaves a half-written snapshot behind.
func (s *SQLiteStore) SaveBookingStatuses(ctx context.Context, statuses notifications.StatusMap) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStoreError("save", "booking_status", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM booking_status`); err != nil {
		return fmt.Errorf("clear booking statuses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO booking_status (booking_id, status) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare status insert: %w", err)
	}
	defer stmt.Close()

	for id, status := range statuses {
		if _, err := stmt.ExecContext(ctx, id, string(status)); err != nil {
			return fmt.Errorf("insert status for %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// SaveNotifications appends events to the notification log. Event IDs are
// deterministic per transition, so replays are ignored rather than
// duplicated.
func (s *SQLiteStore) SaveNotifications(ctx context.Context, events []models.NotificationEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStoreError("save", "notifications", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO notifications
		(id, kind, message, booking_id, listing_id, requester, start_date, end_date, timestamp, read)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare notification insert: %w", err)
	}
	defer stmt.Close()

	for _, event := range events {
		read := 0
		if event.Read {
			read = 1
		}
		_, err := stmt.ExecContext(ctx,
			event.ID, string(event.Kind), event.Message,
			event.BookingID, event.ListingID, event.Requester,
			event.DateRange.Start.String(), event.DateRange.End.String(),
			event.Timestamp, read)
		if err != nil {
			return fmt.Errorf("insert notification %s: %w", event.ID, err)
		}
	}

	return tx.Commit()
}

// GetNotifications returns logged notifications, newest first.
func (s *SQLiteStore) GetNotifications(ctx context.Context, filter NotificationFilter) ([]models.NotificationEvent, error) {
	query := `
		SELECT id, kind, message, booking_id, listing_id, requester, start_date, end_date, timestamp, read
		FROM notifications WHERE 1=1`
	var args []interface{}

	if filter.Unread {
		query += ` AND read = 0`
	}
	if filter.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(filter.Kind))
	}
	query += ` ORDER BY timestamp DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var events []models.NotificationEvent
	for rows.Next() {
		var event models.NotificationEvent
		var kind, startDate, endDate string
		var read int
		if err := rows.Scan(&event.ID, &kind, &event.Message, &event.BookingID,
			&event.ListingID, &event.Requester, &startDate, &endDate,
			&event.Timestamp, &read); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		event.Kind = models.EventKind(kind)
		event.Read = read != 0
		if start, err := models.ParseDate(startDate); err == nil {
			event.DateRange.Start = start
		}
		if end, err := models.ParseDate(endDate); err == nil {
			event.DateRange.End = end
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// MarkNotificationRead marks one notification as read.
func (s *SQLiteStore) MarkNotificationRead(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE notifications SET read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("notification %s: %w", id, apperrors.ErrDataNotFound)
	}
	return nil
}

// MarkAllNotificationsRead marks every notification as read.
func (s *SQLiteStore) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `UPDATE notifications SET read = 1`)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

// ClearNotifications removes all notifications.
func (s *SQLiteStore) ClearNotifications(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM notifications`)
	if err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}

// CacheListings replaces the listing cache with the given set.
func (s *SQLiteStore) CacheListings(ctx context.Context, listings []models.Listing) error {
	if err := s.replaceCache(ctx, "listing_cache", len(listings), func(i int) (string, interface{}) {
		return listings[i].ID, listings[i]
	}); err != nil {
		return err
	}
	return s.SetLastSync(SyncTypeListings, time.Now())
}

// GetCachedListings returns the cached listing set.
func (s *SQLiteStore) GetCachedListings(ctx context.Context) ([]models.Listing, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM listing_cache`)
	if err != nil {
		return nil, fmt.Errorf("query listing cache: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan cached listing: %w", err)
		}
		var listing models.Listing
		if err := json.Unmarshal([]byte(data), &listing); err != nil {
			return nil, fmt.Errorf("decode cached listing: %w", err)
		}
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}

// CacheBookings replaces the booking cache with the given set.
func (s *SQLiteStore) CacheBookings(ctx context.Context, bookings []models.Booking) error {
	if err := s.replaceCache(ctx, "booking_cache", len(bookings), func(i int) (string, interface{}) {
		return bookings[i].ID, bookings[i]
	}); err != nil {
		return err
	}
	return s.SetLastSync(SyncTypeBookings, time.Now())
}

// GetCachedBookings returns the cached booking set.
func (s *SQLiteStore) GetCachedBookings(ctx context.Context) ([]models.Booking, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM booking_cache`)
	if err != nil {
		return nil, fmt.Errorf("query booking cache: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan cached booking: %w", err)
		}
		var booking models.Booking
		if err := json.Unmarshal([]byte(data), &booking); err != nil {
			return nil, fmt.Errorf("decode cached booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func (s *SQLiteStore) replaceCache(ctx context.Context, table string, count int, item func(int) (string, interface{})) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+table+` (id, data) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare %s insert: %w", table, err)
	}
	defer stmt.Close()

	for i := 0; i < count; i++ {
		id, value := item(i)
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode %s entry %s: %w", table, id, err)
		}
		if _, err := stmt.ExecContext(ctx, id, string(data)); err != nil {
			return fmt.Errorf("insert %s entry %s: %w", table, id, err)
		}
	}

	return tx.Commit()
}

// GetLastSync returns the last sync time for a data type.
func (s *SQLiteStore) GetLastSync(dataType string) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syncTimes[dataType]
}

// SetLastSync records the last sync time for a data type.
func (s *SQLiteStore) SetLastSync(dataType string, t time.Time) error {
	s.mu.Lock()
	s.syncTimes[dataType] = t
	s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO sync_times (data_type, last_sync) VALUES (?, ?)
		ON CONFLICT(data_type) DO UPDATE SET last_sync = excluded.last_sync`,
		dataType, t)
	if err != nil {
		return fmt.Errorf("save sync time: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
