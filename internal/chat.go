package internal

import (
	"context"
	"fmt"
)

// TranscriptSource fetches transcripts and titles for videos. Title is
// best-effort and must return a placeholder instead of failing.
type TranscriptSource interface {
	Transcript(ctx context.Context, youtubeURL string) (string, error)
	Title(ctx context.Context, youtubeURL string) string
}

// Completer runs one stateless model invocation.
type Completer interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// ChatService coordinates one conversation turn: it resolves videos,
// seeds new conversations with an auto-generated summary, rebuilds the
// prompt context from the stored log, and persists both sides of each
// exchange. It holds no per-conversation state between calls; the
// store is the only memory.
type ChatService struct {
	store        *Store
	llm          Completer
	source       TranscriptSource
	prompts      *PromptManager
	historyLimit int
	verbose      bool
}

// NewChatService wires the chat orchestrator.
func NewChatService(store *Store, llm Completer, source TranscriptSource, prompts *PromptManager, historyLimit int, verbose bool) *ChatService {
	return &ChatService{
		store:        store,
		llm:          llm,
		source:       source,
		prompts:      prompts,
		historyLimit: historyLimit,
		verbose:      verbose,
	}
}

// OpenOrCreateVideo resolves a raw URL or id to a stored video id,
// fetching and storing transcript and title for videos seen for the
// first time. A video is only stored after its transcript was fetched
// successfully.
func (c *ChatService) OpenOrCreateVideo(ctx context.Context, raw string) (int64, error) {
	key := ExtractVideoID(raw)

	if video, err := c.store.VideoByKey(key); err != nil {
		return 0, err
	} else if video != nil {
		if c.verbose {
			fmt.Printf("Found stored video %s (%s)\n", key, video.Title)
		}
		return video.ID, nil
	}

	url := CanonicalURL(raw)
	transcript, err := c.source.Transcript(ctx, url)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTranscriptUnavailable, err)
	}

	title := c.source.Title(ctx, url)
	return c.store.SaveVideo(key, title, transcript)
}

// ConversationView returns a video's title and its full conversation.
// Opening a video with an empty log performs the one-time transition to
// an active conversation: the fixed summary request is sent to the
// model and the resulting user/assistant pair is persisted.
func (c *ChatService) ConversationView(ctx context.Context, videoID int64) (string, []Turn, error) {
	video, err := c.store.VideoByID(videoID)
	if err != nil {
		return "", nil, err
	}

	turns, err := c.store.Turns(videoID)
	if err != nil {
		return "", nil, err
	}

	if len(turns) == 0 {
		turns, err = c.seedConversation(ctx, video)
		if err != nil {
			return "", nil, err
		}
	}

	return video.Title, turns, nil
}

// seedConversation generates the initial summary exchange. The pair is
// persisted only after the model call succeeds, so a failed first open
// leaves the log empty and the next open retries.
func (c *ChatService) seedConversation(ctx context.Context, video *Video) ([]Turn, error) {
	if c.verbose {
		fmt.Printf("Seeding conversation for %s\n", video.YouTubeID)
	}

	instruction, err := c.prompts.Instruction(video)
	if err != nil {
		return nil, err
	}

	history := []Turn{{VideoID: video.ID, Role: RoleUser, Content: SummaryTrigger}}
	reply, err := c.llm.Complete(ctx, BuildPrompt(instruction, history, c.historyLimit))
	if err != nil {
		return nil, err
	}

	if err := c.store.AppendTurn(video.ID, RoleUser, SummaryTrigger); err != nil {
		return nil, err
	}
	if err := c.store.AppendTurn(video.ID, RoleAssistant, reply); err != nil {
		return nil, err
	}

	return c.store.Turns(video.ID)
}

// SubmitUtterance runs one conversation round: the user text is
// appended to the log, the prompt is rebuilt from the extended history,
// and the model reply is appended and returned together with any
// parsed follow-up suggestions. When the model call fails the user
// turn stands and no assistant turn is written; the next round simply
// resends the extended history.
func (c *ChatService) SubmitUtterance(ctx context.Context, videoID int64, text string) (string, []string, error) {
	video, err := c.store.VideoByID(videoID)
	if err != nil {
		return "", nil, err
	}

	if err := c.store.AppendTurn(videoID, RoleUser, text); err != nil {
		return "", nil, err
	}

	turns, err := c.store.Turns(videoID)
	if err != nil {
		return "", nil, err
	}

	instruction, err := c.prompts.Instruction(video)
	if err != nil {
		return "", nil, err
	}

	reply, err := c.llm.Complete(ctx, BuildPrompt(instruction, turns, c.historyLimit))
	if err != nil {
		return "", nil, err
	}

	if err := c.store.AppendTurn(videoID, RoleAssistant, reply); err != nil {
		return "", nil, err
	}

	return reply, ExtractSuggestions(reply), nil
}

// Library lists all stored videos, newest first.
func (c *ChatService) Library() ([]VideoEntry, error) {
	return c.store.Videos()
}

// Transcript returns the stored transcript for a video.
func (c *ChatService) Transcript(videoID int64) (string, error) {
	video, err := c.store.VideoByID(videoID)
	if err != nil {
		return "", err
	}
	return video.Transcript, nil
}
