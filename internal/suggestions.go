package internal

import "strings"

// SuggestionsMarker is the literal header the instruction template
// requires the model to emit before its follow-up questions.
const SuggestionsMarker = "**Suggested Questions:**"

// maxSuggestions caps how many follow-up questions are surfaced.
const maxSuggestions = 3

// ExtractSuggestions parses the trailing suggestions block out of
// assistant output. Missing or malformed blocks yield an empty result;
// extraction is best-effort and never fails.
func ExtractSuggestions(text string) []string {
	_, after, found := strings.Cut(text, SuggestionsMarker)
	if !found {
		return nil
	}

	var suggestions []string
	for _, line := range strings.Split(after, "\n") {
		line = strings.TrimSpace(line)

		// Accept "1. foo" and "1 foo", reject everything else.
		if len(line) < 2 || line[0] < '0' || line[0] > '9' {
			continue
		}
		if line[1] != '.' && line[1] != ' ' {
			continue
		}

		question := strings.TrimLeft(line, "0123456789")
		question = strings.TrimLeft(question, ". ")
		question = strings.TrimSpace(question)
		suggestions = append(suggestions, question)

		if len(suggestions) == maxSuggestions {
			break
		}
	}

	return suggestions
}
