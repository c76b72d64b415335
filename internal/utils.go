package internal

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ExtractVideoID normalizes a YouTube URL or bare ID to the video id
// used as the dedup key. It never fails: input that matches no known
// pattern is returned verbatim and treated as an id.
func ExtractVideoID(arg string) string {
	arg = strings.TrimSpace(arg)

	// Standard watch URLs carry the id in the v= query parameter.
	if i := strings.Index(arg, "v="); i >= 0 {
		id := arg[i+2:]
		if j := strings.Index(id, "&"); j >= 0 {
			id = id[:j]
		}
		return id
	}

	// Short links: https://youtu.be/<id>
	if strings.Contains(arg, "youtu.be") {
		return arg[strings.LastIndex(arg, "/")+1:]
	}

	return arg
}

// CanonicalURL returns a URL usable by yt-dlp for the given argument.
// URLs pass through unchanged; bare ids become watch URLs.
func CanonicalURL(arg string) string {
	arg = strings.TrimSpace(arg)
	if strings.HasPrefix(arg, "https://") || strings.HasPrefix(arg, "http://") {
		return arg
	}
	return "https://www.youtube.com/watch?v=" + arg
}

// IsValidYouTubeID checks if a string looks like a valid YouTube video ID
func IsValidYouTubeID(id string) bool {
	// YouTube video IDs are exactly 11 characters long
	if len(id) != 11 {
		return false
	}

	matched, _ := regexp.MatchString(`^[A-Za-z0-9_-]+$`, id)
	return matched
}

// IsLikelyCommand checks if a string looks like it might be a mistyped command
func IsLikelyCommand(arg string) bool {
	// Short strings that are neither URLs nor YouTube IDs are likely commands
	if len(arg) <= 10 && !strings.Contains(arg, "/") && !IsValidYouTubeID(arg) {
		return true
	}
	return false
}

// getTerminalWidth gets terminal width with fallback
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}

	if width > 10 {
		return width - 4
	}

	return width
}

// RenderMarkdown renders markdown content with glamour
func RenderMarkdown(content string) (string, error) {
	width := getTerminalWidth()
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.EnvColorProfile()),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}

	renderedContent, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	return renderedContent, nil
}

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// EnsureDirs creates directories if needed
func EnsureDirs(dir ...string) error {
	for _, dir := range dir {
		if !FileExists(dir) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
	}
	return nil
}
