package internal

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	history := []Turn{
		{Role: RoleUser, Content: "first"},
		{Role: RoleAssistant, Content: "second"},
		{Role: RoleUser, Content: "third"},
	}

	prompt := BuildPrompt("instructions here", history, 0)

	if prompt.Instruction != "instructions here" {
		t.Errorf("instruction = %q", prompt.Instruction)
	}
	if len(prompt.Messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(prompt.Messages))
	}
	if prompt.Messages[0].Content != "first" || prompt.Messages[0].Role != RoleUser {
		t.Errorf("first message = %+v", prompt.Messages[0])
	}
	if prompt.Messages[1].Content != "second" || prompt.Messages[1].Role != RoleAssistant {
		t.Errorf("second message = %+v", prompt.Messages[1])
	}
	if prompt.Messages[2].Content != "third" {
		t.Errorf("third message = %+v", prompt.Messages[2])
	}
}

func TestBuildPromptHistoryLimit(t *testing.T) {
	history := []Turn{
		{Role: RoleUser, Content: "oldest"},
		{Role: RoleAssistant, Content: "middle"},
		{Role: RoleUser, Content: "newest"},
	}

	prompt := BuildPrompt("i", history, 2)

	if len(prompt.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(prompt.Messages))
	}
	// The newest turns are kept, oldest-first order preserved.
	if prompt.Messages[0].Content != "middle" || prompt.Messages[1].Content != "newest" {
		t.Errorf("messages = %q, %q", prompt.Messages[0].Content, prompt.Messages[1].Content)
	}
}

func TestInstructionFromCustomString(t *testing.T) {
	pm := NewPromptManager(t.TempDir(), "Ground your answers in: {{.Transcript}}")

	instruction, err := pm.Instruction(&Video{Title: "A Video", Transcript: "the spoken words"})
	if err != nil {
		t.Fatalf("instruction: %v", err)
	}

	if instruction != "Ground your answers in: the spoken words" {
		t.Errorf("instruction = %q", instruction)
	}
}

func TestDefaultInstructionTemplate(t *testing.T) {
	configDir := t.TempDir()
	if err := EnsureDefaultInstruction(configDir); err != nil {
		t.Fatalf("materialize default template: %v", err)
	}

	pm := NewPromptManager(configDir, "")
	instruction, err := pm.Instruction(&Video{Title: "A Video", Transcript: "UNIQUE-TRANSCRIPT-TEXT"})
	if err != nil {
		t.Fatalf("instruction: %v", err)
	}

	if !strings.Contains(instruction, "UNIQUE-TRANSCRIPT-TEXT") {
		t.Error("default template does not embed the transcript")
	}
	if !strings.Contains(instruction, SuggestionsMarker) {
		t.Errorf("default template does not carry the %q directive", SuggestionsMarker)
	}
	if !strings.Contains(instruction, "Do NOT mention") {
		t.Error("default template is missing the grounding directive")
	}
}
