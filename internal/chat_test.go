package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// fakeLLM replays canned replies and records the prompts it was given.
type fakeLLM struct {
	replies []string
	errs    []error
	prompts []Prompt
}

func (f *fakeLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	call := len(f.prompts)
	f.prompts = append(f.prompts, prompt)

	if call < len(f.errs) && f.errs[call] != nil {
		return "", f.errs[call]
	}
	if call < len(f.replies) {
		return f.replies[call], nil
	}
	return "ok", nil
}

// fakeSource serves a fixed transcript and counts fetches.
type fakeSource struct {
	transcript string
	title      string
	err        error
	fetches    int
}

func (f *fakeSource) Transcript(ctx context.Context, youtubeURL string) (string, error) {
	f.fetches++
	if f.err != nil {
		return "", f.err
	}
	return f.transcript, nil
}

func (f *fakeSource) Title(ctx context.Context, youtubeURL string) string {
	if f.title == "" {
		return UnknownVideoTitle
	}
	return f.title
}

func createTestChat(t *testing.T, llm *fakeLLM, source *fakeSource) (*ChatService, *Store) {
	t.Helper()

	store := createTestStore(t)
	prompts := NewPromptManager(t.TempDir(), "Video content: {{.Transcript}}")
	return NewChatService(store, llm, source, prompts, 0, false), store
}

func TestOpenOrCreateVideoStoresOnce(t *testing.T) {
	source := &fakeSource{transcript: "spoken words", title: "A Video"}
	chat, _ := createTestChat(t, &fakeLLM{}, source)

	first, err := chat.OpenOrCreateVideo(context.Background(), "https://www.youtube.com/watch?v=tAP1eZYEuKA")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	// Same video via a different URL form resolves without refetching.
	second, err := chat.OpenOrCreateVideo(context.Background(), "https://youtu.be/tAP1eZYEuKA")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	if first != second {
		t.Errorf("ids differ: %d vs %d", first, second)
	}
	if source.fetches != 1 {
		t.Errorf("transcript fetched %d times, want 1", source.fetches)
	}
}

func TestOpenOrCreateVideoFetchFailure(t *testing.T) {
	source := &fakeSource{err: fmt.Errorf("no captions")}
	chat, store := createTestChat(t, &fakeLLM{}, source)

	_, err := chat.OpenOrCreateVideo(context.Background(), "tAP1eZYEuKA")
	if !errors.Is(err, ErrTranscriptUnavailable) {
		t.Fatalf("expected ErrTranscriptUnavailable, got %v", err)
	}

	// The video must not be stored when the transcript fetch fails.
	if video, _ := store.VideoByKey("tAP1eZYEuKA"); video != nil {
		t.Error("video stored despite transcript failure")
	}
}

func TestConversationSeedsExactlyOnce(t *testing.T) {
	llm := &fakeLLM{replies: []string{"A summary of the video."}}
	source := &fakeSource{transcript: "spoken words", title: "A Video"}
	chat, _ := createTestChat(t, llm, source)

	videoID, err := chat.OpenOrCreateVideo(context.Background(), "tAP1eZYEuKA")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	title, turns, err := chat.ConversationView(context.Background(), videoID)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if title != "A Video" {
		t.Errorf("title = %q", title)
	}
	if len(turns) != 2 {
		t.Fatalf("got %d turns after first open, want 2", len(turns))
	}
	if turns[0].Role != RoleUser || turns[0].Content != SummaryTrigger {
		t.Errorf("first turn = (%s, %q), want the summary trigger", turns[0].Role, turns[0].Content)
	}
	if turns[1].Role != RoleAssistant || turns[1].Content != "A summary of the video." {
		t.Errorf("second turn = (%s, %q)", turns[1].Role, turns[1].Content)
	}

	// The seeding prompt carries the transcript and the trigger only.
	if len(llm.prompts) != 1 {
		t.Fatalf("model invoked %d times, want 1", len(llm.prompts))
	}
	if !strings.Contains(llm.prompts[0].Instruction, "spoken words") {
		t.Error("instruction does not embed the transcript")
	}
	if len(llm.prompts[0].Messages) != 1 || llm.prompts[0].Messages[0].Content != SummaryTrigger {
		t.Errorf("seed messages = %+v", llm.prompts[0].Messages)
	}

	// A second open must not repeat the transition.
	_, turns, err = chat.ConversationView(context.Background(), videoID)
	if err != nil {
		t.Fatalf("second view: %v", err)
	}
	if len(turns) != 2 {
		t.Errorf("got %d turns after second open, want 2", len(turns))
	}
	if len(llm.prompts) != 1 {
		t.Errorf("model invoked %d times after second open, want 1", len(llm.prompts))
	}
}

func TestSeedFailureLeavesLogEmpty(t *testing.T) {
	llm := &fakeLLM{
		errs:    []error{fmt.Errorf("%w: boom", ErrModelFailure)},
		replies: []string{"", "A summary."},
	}
	source := &fakeSource{transcript: "spoken words"}
	chat, store := createTestChat(t, llm, source)

	videoID, err := chat.OpenOrCreateVideo(context.Background(), "tAP1eZYEuKA")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, _, err := chat.ConversationView(context.Background(), videoID); !errors.Is(err, ErrModelFailure) {
		t.Fatalf("expected ErrModelFailure, got %v", err)
	}

	turns, err := store.Turns(videoID)
	if err != nil {
		t.Fatalf("turns: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("failed seeding left %d turns behind", len(turns))
	}

	// The next open retries the transition.
	_, turns, err = chat.ConversationView(context.Background(), videoID)
	if err != nil {
		t.Fatalf("retry view: %v", err)
	}
	if len(turns) != 2 {
		t.Errorf("got %d turns after retry, want 2", len(turns))
	}
}

func TestSubmitUtterance(t *testing.T) {
	llm := &fakeLLM{replies: []string{
		"A summary.",
		"An answer.\n\n**Suggested Questions:**\n1. Why X?\n2. How Y?\n3. What Z?",
	}}
	source := &fakeSource{transcript: "spoken words"}
	chat, store := createTestChat(t, llm, source)

	videoID, _ := chat.OpenOrCreateVideo(context.Background(), "tAP1eZYEuKA")
	if _, _, err := chat.ConversationView(context.Background(), videoID); err != nil {
		t.Fatalf("seed: %v", err)
	}

	reply, suggestions, err := chat.SubmitUtterance(context.Background(), videoID, "Tell me more.")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if !strings.HasPrefix(reply, "An answer.") {
		t.Errorf("reply = %q", reply)
	}
	want := []string{"Why X?", "How Y?", "What Z?"}
	if len(suggestions) != 3 || suggestions[0] != want[0] || suggestions[1] != want[1] || suggestions[2] != want[2] {
		t.Errorf("suggestions = %#v, want %#v", suggestions, want)
	}

	// The second prompt replays the seeded pair plus the new utterance.
	if len(llm.prompts) != 2 {
		t.Fatalf("model invoked %d times, want 2", len(llm.prompts))
	}
	msgs := llm.prompts[1].Messages
	if len(msgs) != 3 {
		t.Fatalf("got %d history messages, want 3", len(msgs))
	}
	if msgs[2].Role != RoleUser || msgs[2].Content != "Tell me more." {
		t.Errorf("last message = %+v", msgs[2])
	}

	turns, _ := store.Turns(videoID)
	if len(turns) != 4 {
		t.Errorf("log holds %d turns, want 4", len(turns))
	}
}

func TestSubmitUtteranceModelFailure(t *testing.T) {
	llm := &fakeLLM{
		replies: []string{"A summary."},
		errs:    []error{nil, fmt.Errorf("%w: upstream 500", ErrModelFailure)},
	}
	source := &fakeSource{transcript: "spoken words"}
	chat, store := createTestChat(t, llm, source)

	videoID, _ := chat.OpenOrCreateVideo(context.Background(), "tAP1eZYEuKA")
	if _, _, err := chat.ConversationView(context.Background(), videoID); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, _, err := chat.SubmitUtterance(context.Background(), videoID, "Doomed question.")
	if !errors.Is(err, ErrModelFailure) {
		t.Fatalf("expected ErrModelFailure, got %v", err)
	}

	// The user turn stands; no assistant turn was written.
	turns, _ := store.Turns(videoID)
	if len(turns) != 3 {
		t.Fatalf("log holds %d turns, want 3", len(turns))
	}
	last := turns[len(turns)-1]
	if last.Role != RoleUser || last.Content != "Doomed question." {
		t.Errorf("last turn = (%s, %q)", last.Role, last.Content)
	}
}

func TestSubmitUtteranceUnknownVideo(t *testing.T) {
	chat, _ := createTestChat(t, &fakeLLM{}, &fakeSource{})

	_, _, err := chat.SubmitUtterance(context.Background(), 99, "hello")
	if !errors.Is(err, ErrVideoNotFound) {
		t.Errorf("expected ErrVideoNotFound, got %v", err)
	}
}

func TestLibraryListsVideos(t *testing.T) {
	source := &fakeSource{transcript: "spoken words", title: "A Video"}
	chat, _ := createTestChat(t, &fakeLLM{}, source)

	if _, err := chat.OpenOrCreateVideo(context.Background(), "tAP1eZYEuKA"); err != nil {
		t.Fatalf("open: %v", err)
	}

	entries, err := chat.Library()
	if err != nil {
		t.Fatalf("library: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].YouTubeID != "tAP1eZYEuKA" || entries[0].Title != "A Video" {
		t.Errorf("entry = %+v", entries[0])
	}
}
