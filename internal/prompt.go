package internal

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// PromptData for template injection
type PromptData struct {
	Title      string
	Transcript string
}

// PromptManager loads the instruction template and builds the message
// sequence for a model invocation.
type PromptManager struct {
	instructionFile   string
	instructionString string
	configDir         string
}

// NewPromptManager creates a new prompt manager
func NewPromptManager(configDir, instructionSetting string) *PromptManager {
	pm := &PromptManager{
		configDir: configDir,
	}

	// Configure instruction based on config setting
	if instructionSetting != "" {
		if IsLikelyFilePath(instructionSetting) && FileExists(instructionSetting) {
			pm.instructionFile = instructionSetting
		} else {
			pm.instructionString = instructionSetting
		}
	}

	return pm
}

// Instruction builds the system instruction for a video, embedding its
// transcript into the instruction template.
func (pm *PromptManager) Instruction(video *Video) (string, error) {
	var tmplContent string

	if pm.instructionString != "" {
		tmplContent = pm.instructionString
	} else {
		instructionFile := pm.instructionFile
		if instructionFile == "" {
			// Use default template from the config directory
			instructionFile = filepath.Join(pm.configDir, "instruction.txt")
		}

		content, err := os.ReadFile(instructionFile)
		if err != nil {
			return "", fmt.Errorf("reading instruction template: %w", err)
		}
		tmplContent = string(content)
	}

	tmpl, err := template.New("instruction").Parse(tmplContent)
	if err != nil {
		return "", fmt.Errorf("parsing instruction template: %w", err)
	}

	data := PromptData{
		Title:      video.Title,
		Transcript: video.Transcript,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing instruction template: %w", err)
	}

	return buf.String(), nil
}

// BuildPrompt assembles the model input: the instruction first, then
// the conversation history mapped role-for-role, oldest first. When
// limit is positive only the newest limit turns are replayed; the
// relative order of the kept turns is unchanged.
func BuildPrompt(instruction string, history []Turn, limit int) Prompt {
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}

	messages := make([]ChatMessage, 0, len(history))
	for _, turn := range history {
		messages = append(messages, ChatMessage{Role: turn.Role, Content: turn.Content})
	}

	return Prompt{Instruction: instruction, Messages: messages}
}

// IsLikelyFilePath uses heuristics to determine if a string is likely a file path
func IsLikelyFilePath(s string) bool {
	// Check for common file path indicators
	if strings.Contains(s, "/") || strings.Contains(s, "\\") {
		return true
	}

	// Check for common file extensions
	if strings.Contains(s, ".txt") || strings.Contains(s, ".md") ||
		strings.Contains(s, ".template") || strings.Contains(s, ".tmpl") {
		return true
	}

	// If it's longer than 200 characters, it's likely a template string
	if len(s) > 200 {
		return false
	}

	// Default to treating as file path if it doesn't contain spaces and newlines
	return !strings.Contains(s, " ") && !strings.Contains(s, "\n")
}
