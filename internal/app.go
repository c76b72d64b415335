package internal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
)

// App holds the application state and dependencies
type App struct {
	store   *Store
	youtube *YouTube
	llm     *LLM
	chat    *ChatService
	config  *Config
	ui      UIManager
}

// NewApp initializes the application
func NewApp(config *Config, options ...AppOption) (*App, error) {
	store, err := OpenStore(config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	youtube := NewYouTube(config.CacheDir, config.Verbose)
	llm := NewLLMWithKey(config.OpenAIAPIKey, config.ChatModel, config.ChatTimeout, config.Verbose)
	prompts := NewPromptManager(config.ConfigDir, config.Instruction)

	app := &App{
		store:   store,
		youtube: youtube,
		llm:     llm,
		chat:    NewChatService(store, llm, youtube, prompts, config.HistoryLimit, config.Verbose),
		config:  config,
		ui:      NewUIManager(config.Verbose, config.Quiet),
	}

	// Apply any custom options
	for _, option := range options {
		option(app)
	}

	return app, nil
}

// AppOption customizes App creation
type AppOption func(*App)

// WithYouTube sets a custom YouTube fetcher
func WithYouTube(youtube *YouTube) AppOption {
	return func(a *App) {
		a.youtube = youtube
		a.rewire()
	}
}

// WithLLM sets a custom LLM
func WithLLM(llm *LLM) AppOption {
	return func(a *App) {
		a.llm = llm
		a.rewire()
	}
}

func (a *App) rewire() {
	prompts := NewPromptManager(a.config.ConfigDir, a.config.Instruction)
	a.chat = NewChatService(a.store, a.llm, a.youtube, prompts, a.config.HistoryLimit, a.config.Verbose)
}

// Close releases the database connection.
func (app *App) Close() error {
	return app.store.Close()
}

// Chat returns the conversation service.
func (app *App) Chat() *ChatService {
	return app.chat
}

// LLM returns the model client.
func (app *App) LLM() *LLM {
	return app.llm
}

// SetPromptManager sets a new prompt manager
func (app *App) SetPromptManager(pm *PromptManager) {
	app.chat = NewChatService(app.store, app.llm, app.youtube, pm, app.config.HistoryLimit, app.config.Verbose)
}

// OpenVideo resolves a URL or id to a stored video, fetching the
// transcript and title when the video is new.
func (app *App) OpenVideo(ctx context.Context, raw string) (int64, error) {
	spinner := app.ui.NewSpinner("Checking library...")

	key := ExtractVideoID(raw)
	if video, err := app.store.VideoByKey(key); err == nil && video != nil {
		spinner.Describe("Found in library")
		spinner.Finish()
		return video.ID, nil
	}

	spinner.Describe("Fetching transcript and title...")
	spinner.Advance()

	videoID, err := app.chat.OpenOrCreateVideo(ctx, raw)
	spinner.Finish()
	if err != nil {
		return 0, err
	}
	return videoID, nil
}

// ChatLoop runs the interactive conversation for a video: prints the
// stored conversation (seeding the summary on first open), then reads
// user input until exit/EOF. Typing the number of a suggested question
// submits that question.
func (app *App) ChatLoop(ctx context.Context, videoID int64) error {
	spinner := app.ui.NewSpinner("Opening conversation...")
	title, turns, err := app.chat.ConversationView(ctx, videoID)
	spinner.Finish()
	if err != nil {
		return err
	}

	app.ui.Printf("\n%s\n\n", title)

	var suggestions []string
	for _, turn := range turns {
		app.printTurn(turn.Role, turn.Content)
		if turn.Role == RoleAssistant {
			suggestions = ExtractSuggestions(turn.Content)
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		app.printSuggestions(suggestions)
		app.ui.Printf("> ")

		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		// A bare number picks the corresponding suggested question.
		if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(suggestions) {
			input = suggestions[n-1]
			app.ui.Printf("You: %s\n", input)
		}

		thinking := app.ui.NewSpinner("Thinking...")
		reply, nextSuggestions, err := app.chat.SubmitUtterance(ctx, videoID, input)
		thinking.Finish()
		if err != nil {
			if errors.Is(err, ErrModelFailure) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				suggestions = nil
				continue
			}
			return err
		}

		app.printTurn(RoleAssistant, reply)
		suggestions = nextSuggestions
	}

	return scanner.Err()
}

// printTurn writes one conversation turn, rendering assistant markdown
// when stdout is a terminal.
func (app *App) printTurn(role Role, content string) {
	if role == RoleUser {
		app.ui.Printf("You: %s\n", content)
		return
	}

	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		if rendered, err := RenderMarkdown(content); err == nil {
			app.ui.Printf("%s\n", rendered)
			return
		}
	}
	app.ui.Printf("%s\n\n", content)
}

func (app *App) printSuggestions(suggestions []string) {
	if len(suggestions) == 0 {
		return
	}
	app.ui.Println("Suggested questions:")
	for i, s := range suggestions {
		app.ui.Printf("  %d. %s\n", i+1, s)
	}
}
