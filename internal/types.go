package internal

import (
	"errors"
	"time"
)

// Role identifies which side of the conversation a turn belongs to.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// SummaryTrigger is the synthetic first user message of every
// conversation. Changing it would break replay of stored conversations.
const SummaryTrigger = "Please provide a short summary paragraph of the video content."

// UnknownVideoTitle is the placeholder used when the title fetch fails.
const UnknownVideoTitle = "Unknown Video"

var (
	// ErrVideoNotFound is returned when a video id no longer resolves.
	ErrVideoNotFound = errors.New("video not found")

	// ErrTranscriptUnavailable is returned when no captions could be
	// fetched for a video. The video is not stored in that case.
	ErrTranscriptUnavailable = errors.New("transcript unavailable")

	// ErrModelFailure is returned when the chat completion call fails.
	ErrModelFailure = errors.New("model request failed")
)

// Video is one processed video with its grounding transcript.
// Immutable after creation.
type Video struct {
	ID         int64
	YouTubeID  string
	Title      string
	Transcript string
	CreatedAt  time.Time
}

// VideoEntry is the library listing view of a video, without the
// transcript payload.
type VideoEntry struct {
	ID        int64
	YouTubeID string
	Title     string
	CreatedAt time.Time
}

// Turn is one message in a video's conversation log.
type Turn struct {
	ID        int64
	VideoID   int64
	Role      Role
	Content   string
	Timestamp time.Time
}

// ChatMessage is a role-tagged message sent to the model.
type ChatMessage struct {
	Role    Role
	Content string
}

// Prompt is the full input of a single model invocation: the system
// instruction followed by the conversation so far, oldest first.
type Prompt struct {
	Instruction string
	Messages    []ChatMessage
}
