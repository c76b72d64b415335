package internal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// ChatClientInterface defines the interface for model API operations
type ChatClientInterface interface {
	CreateChatCompletion(ctx context.Context, model string, prompt Prompt) (string, error)
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

// ModelInfo describes one model available to the configured API key.
type ModelInfo struct {
	ID      string    `json:"id"`
	OwnedBy string    `json:"owned_by"`
	Created time.Time `json:"created"`
}

// OpenAIClient wraps the official OpenAI Go SDK
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{client: &client}
}

// CreateChatCompletion sends the prompt as a single stateless chat
// completion: the instruction as system message, then the conversation
// mapped role-for-role.
func (c *OpenAIClient) CreateChatCompletion(ctx context.Context, model string, prompt Prompt) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(prompt.Messages)+1)
	messages = append(messages, openai.SystemMessage(prompt.Instruction))

	for _, msg := range prompt.Messages {
		switch msg.Role {
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

// ListModels returns the models visible to the configured API key.
func (c *OpenAIClient) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var models []ModelInfo

	iter := c.client.Models.ListAutoPaging(ctx)
	for iter.Next() {
		m := iter.Current()
		models = append(models, ModelInfo{
			ID:      m.ID,
			OwnedBy: m.OwnedBy,
			Created: time.Unix(m.Created, 0),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}

	return models, nil
}

// LLM handles chat completions against the model API.
type LLM struct {
	client     ChatClientInterface
	model      string
	timeout    time.Duration
	verbose    bool
	apiKey     string
	clientOnce sync.Once
}

// NewLLM creates a new LLM with an explicit client (used by tests).
func NewLLM(client ChatClientInterface, model string, timeout time.Duration, verbose bool) *LLM {
	return &LLM{
		client:  client,
		model:   model,
		timeout: timeout,
		verbose: verbose,
	}
}

// NewLLMWithKey creates a new LLM with lazy client initialization
func NewLLMWithKey(apiKey, model string, timeout time.Duration, verbose bool) *LLM {
	return &LLM{
		model:   model,
		timeout: timeout,
		verbose: verbose,
		apiKey:  apiKey,
	}
}

// ensureClient initializes the OpenAI client if needed
func (l *LLM) ensureClient() error {
	if l.client != nil {
		return nil
	}

	if err := ValidateOpenAIAPIKey(l.apiKey); err != nil {
		return err
	}

	l.clientOnce.Do(func() {
		l.client = NewOpenAIClient(l.apiKey)
	})

	return nil
}

// Complete runs one stateless chat completion for the given prompt.
func (l *LLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	if err := l.ensureClient(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelFailure, err)
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	if l.verbose {
		fmt.Printf("Requesting chat completion from %s (%d turns)\n", l.model, len(prompt.Messages))
	}

	content, err := l.client.CreateChatCompletion(ctx, l.model, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelFailure, err)
	}

	return content, nil
}

// Models lists the models available to the configured API key.
func (l *LLM) Models(ctx context.Context) ([]ModelInfo, error) {
	if err := l.ensureClient(); err != nil {
		return nil, err
	}
	return l.client.ListModels(ctx)
}

// ValidateOpenAIAPIKey checks if the OpenAI API key is set and returns a standardized error if not
func ValidateOpenAIAPIKey(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("OpenAI API key is required - set it in config.toml or OPENAI_API_KEY environment variable")
	}
	return nil
}
