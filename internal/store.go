package internal

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists videos and their conversation logs in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if necessary) the database at path.
func OpenStore(path string) (*Store, error) {
	if err := EnsureDirs(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewStore wraps an already opened database connection. Used by tests
// with an in-memory database.
func NewStore(db *sql.DB) (*Store, error) {
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS videos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			youtube_id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			transcript TEXT NOT NULL,
			created_at REAL NOT NULL
		);

		CREATE TABLE IF NOT EXISTS turns (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			video_id INTEGER NOT NULL REFERENCES videos(id),
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			timestamp REAL NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_turns_video ON turns(video_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveVideo inserts a new video and returns its id. Saving a video
// whose youtube_id already exists is not an error: the id of the
// existing row is returned and the stored title and transcript are
// left untouched.
func (s *Store) SaveVideo(youtubeID, title, transcript string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO videos (youtube_id, title, transcript, created_at)
		VALUES (?, ?, ?, ?)
	`, youtubeID, title, transcript, timeToUnix(time.Now()))
	if err != nil {
		// Uniqueness violation or a racing insert: fall back to the
		// existing row.
		if existing, lookupErr := s.VideoByKey(youtubeID); lookupErr == nil && existing != nil {
			return existing.ID, nil
		}
		return 0, fmt.Errorf("inserting video: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading video id: %w", err)
	}
	return id, nil
}

// VideoByKey looks up a video by its normalized YouTube id. Returns
// (nil, nil) when no such video exists.
func (s *Store) VideoByKey(youtubeID string) (*Video, error) {
	row := s.db.QueryRow(`
		SELECT id, youtube_id, title, transcript, created_at
		FROM videos
		WHERE youtube_id = ?
	`, youtubeID)

	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query video by key: %w", err)
	}
	return video, nil
}

// VideoByID looks up a video by its surrogate key. Returns
// ErrVideoNotFound when the id does not resolve.
func (s *Store) VideoByID(id int64) (*Video, error) {
	row := s.db.QueryRow(`
		SELECT id, youtube_id, title, transcript, created_at
		FROM videos
		WHERE id = ?
	`, id)

	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query video by id: %w", err)
	}
	return video, nil
}

// Videos lists all stored videos, newest first.
func (s *Store) Videos() ([]VideoEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, youtube_id, title, created_at
		FROM videos
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	var entries []VideoEntry
	for rows.Next() {
		var e VideoEntry
		var createdAt float64
		if err := rows.Scan(&e.ID, &e.YouTubeID, &e.Title, &createdAt); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		e.CreatedAt = timeFromUnix(createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// AppendTurn adds one turn to a video's conversation log with the
// current timestamp. The log is append-only; turns are never updated
// or deleted.
func (s *Store) AppendTurn(videoID int64, role Role, content string) error {
	_, err := s.db.Exec(`
		INSERT INTO turns (video_id, role, content, timestamp)
		VALUES (?, ?, ?, ?)
	`, videoID, string(role), content, timeToUnix(time.Now()))
	if err != nil {
		return fmt.Errorf("inserting turn: %w", err)
	}
	return nil
}

// Turns replays a video's conversation in creation order. An empty
// result means the conversation has not started yet.
func (s *Store) Turns(videoID int64) ([]Turn, error) {
	rows, err := s.db.Query(`
		SELECT id, video_id, role, content, timestamp
		FROM turns
		WHERE video_id = ?
		ORDER BY timestamp ASC, id ASC
	`, videoID)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		var role string
		var timestamp float64
		if err := rows.Scan(&t.ID, &t.VideoID, &role, &t.Content, &timestamp); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		t.Role = Role(role)
		t.Timestamp = timeFromUnix(timestamp)
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

func scanVideo(row *sql.Row) (*Video, error) {
	var v Video
	var createdAt float64
	if err := row.Scan(&v.ID, &v.YouTubeID, &v.Title, &v.Transcript, &createdAt); err != nil {
		return nil, err
	}
	v.CreatedAt = timeFromUnix(createdAt)
	return &v, nil
}

// timeToUnix converts a time to fractional unix seconds for storage.
func timeToUnix(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// timeFromUnix converts fractional unix seconds back to a time.
func timeFromUnix(seconds float64) time.Time {
	sec, frac := math.Modf(seconds)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}
