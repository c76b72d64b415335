package internal

import (
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"
)

// createTestStore creates a store backed by an in-memory SQLite database.
func createTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	// A fresh pool connection would see a different empty database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	store, err := NewStore(db)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	return store
}

func TestSaveVideoDedup(t *testing.T) {
	store := createTestStore(t)

	first, err := store.SaveVideo("abc123def45", "First Title", "first transcript")
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	second, err := store.SaveVideo("abc123def45", "Second Title", "second transcript")
	if err != nil {
		t.Fatalf("duplicate save: %v", err)
	}

	if first != second {
		t.Errorf("duplicate save returned id %d, want %d", second, first)
	}

	// First write wins.
	video, err := store.VideoByKey("abc123def45")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if video == nil {
		t.Fatal("video not found after save")
	}
	if video.Title != "First Title" {
		t.Errorf("title = %q, want %q", video.Title, "First Title")
	}
	if video.Transcript != "first transcript" {
		t.Errorf("transcript = %q, want %q", video.Transcript, "first transcript")
	}
}

func TestVideoByKeyAbsent(t *testing.T) {
	store := createTestStore(t)

	video, err := store.VideoByKey("nope")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if video != nil {
		t.Errorf("expected nil for absent key, got %+v", video)
	}
}

func TestVideoByIDNotFound(t *testing.T) {
	store := createTestStore(t)

	_, err := store.VideoByID(42)
	if !errors.Is(err, ErrVideoNotFound) {
		t.Errorf("expected ErrVideoNotFound, got %v", err)
	}
}

func TestVideosNewestFirst(t *testing.T) {
	store := createTestStore(t)

	for _, key := range []string{"video-one", "video-two", "video-three"} {
		if _, err := store.SaveVideo(key, "Title "+key, "transcript"); err != nil {
			t.Fatalf("save %s: %v", key, err)
		}
	}

	entries, err := store.Videos()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].YouTubeID != "video-three" || entries[2].YouTubeID != "video-one" {
		t.Errorf("unexpected order: %s, %s, %s",
			entries[0].YouTubeID, entries[1].YouTubeID, entries[2].YouTubeID)
	}
}

func TestTurnsEmptyForNewVideo(t *testing.T) {
	store := createTestStore(t)

	id, err := store.SaveVideo("abc123def45", "Title", "transcript")
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	turns, err := store.Turns(id)
	if err != nil {
		t.Fatalf("turns: %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("expected empty log, got %d turns", len(turns))
	}
}

func TestTurnsRoundTrip(t *testing.T) {
	store := createTestStore(t)

	id, err := store.SaveVideo("abc123def45", "Title", "transcript")
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := store.AppendTurn(id, RoleUser, "a"); err != nil {
		t.Fatalf("append user: %v", err)
	}
	if err := store.AppendTurn(id, RoleAssistant, "b"); err != nil {
		t.Fatalf("append assistant: %v", err)
	}

	turns, err := store.Turns(id)
	if err != nil {
		t.Fatalf("turns: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(turns))
	}
	if turns[0].Role != RoleUser || turns[0].Content != "a" {
		t.Errorf("first turn = (%s, %q), want (user, a)", turns[0].Role, turns[0].Content)
	}
	if turns[1].Role != RoleAssistant || turns[1].Content != "b" {
		t.Errorf("second turn = (%s, %q), want (assistant, b)", turns[1].Role, turns[1].Content)
	}

	// Turns of another video stay invisible.
	other, err := store.SaveVideo("other-video", "Other", "transcript")
	if err != nil {
		t.Fatalf("save other: %v", err)
	}
	otherTurns, err := store.Turns(other)
	if err != nil {
		t.Fatalf("other turns: %v", err)
	}
	if len(otherTurns) != 0 {
		t.Errorf("expected other video log to be empty, got %d turns", len(otherTurns))
	}
}
