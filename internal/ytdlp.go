package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// VideoMetadata contains YouTube video information
type VideoMetadata struct {
	Title       string  `json:"title"`
	Channel     string  `json:"channel"`
	Duration    float64 `json:"duration"`
	HasCaptions bool    `json:"has_captions"`
}

// YouTube fetches transcripts and metadata via yt-dlp.
type YouTube struct {
	cacheDir string
	verbose  bool
}

// NewYouTube creates a new YouTube fetcher
func NewYouTube(cacheDir string, verbose bool) *YouTube {
	return &YouTube{
		cacheDir: cacheDir,
		verbose:  verbose,
	}
}

// Metadata fetches video details using go-ytdlp
func (yt *YouTube) Metadata(ctx context.Context, youtubeURL string) (*VideoMetadata, error) {
	if yt.verbose {
		fmt.Println("Extracting video metadata...")
	}

	dl := ytdlp.New().
		DumpSingleJSON(). // Get all info in JSON format
		NoPlaylist().     // Don't process playlists
		SkipDownload()    // Don't download the actual video

	result, err := dl.Run(ctx, youtubeURL)
	if err != nil {
		if yt.verbose {
			fmt.Printf("Metadata extraction error: %v\n", err)
			fmt.Printf("Stderr: %s\n", result.Stderr)
		}
		return nil, fmt.Errorf("extracting video metadata: %w", err)
	}

	// Parse into a raw map first to extract subtitle availability
	var rawData map[string]any
	if err := json.Unmarshal([]byte(result.Stdout), &rawData); err != nil {
		return nil, fmt.Errorf("parsing video metadata: %w", err)
	}

	var metadata VideoMetadata
	if err := json.Unmarshal([]byte(result.Stdout), &metadata); err != nil {
		return nil, fmt.Errorf("parsing video metadata: %w", err)
	}

	metadata.HasCaptions = extractSubtitleInfo(rawData)

	if yt.verbose {
		fmt.Printf("Title: %s\n", metadata.Title)
		fmt.Printf("Channel: %s\n", metadata.Channel)
		fmt.Printf("Has captions: %t\n", metadata.HasCaptions)
	}

	return &metadata, nil
}

// Title returns the video title, best-effort. Any failure yields the
// placeholder title instead of an error.
func (yt *YouTube) Title(ctx context.Context, youtubeURL string) string {
	metadata, err := yt.Metadata(ctx, youtubeURL)
	if err != nil || metadata.Title == "" {
		if yt.verbose {
			fmt.Printf("Could not fetch title: %v\n", err)
		}
		return UnknownVideoTitle
	}
	return metadata.Title
}

// Transcript fetches the captions for a video and returns them as
// deduplicated plain text in spoken order.
func (yt *YouTube) Transcript(ctx context.Context, youtubeURL string) (string, error) {
	videoID := ExtractVideoID(youtubeURL)

	if err := EnsureDirs(yt.cacheDir); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}

	if yt.verbose {
		fmt.Printf("Downloading subtitles for %s\n", videoID)
	}

	outputPath := filepath.Join(yt.cacheDir, "%(id)s")

	dl := ytdlp.New().
		WriteSubs().        // Enable subtitle writing
		WriteAutoSubs().    // Enable auto-generated subtitle writing
		SubLangs("en").     // English subtitle variants, including auto-generated
		ConvertSubs("srt"). // Convert subtitles to SRT format
		SkipDownload().     // Skip downloading the video
		Output(outputPath)

	result, err := dl.Run(ctx, youtubeURL)
	if err != nil {
		if yt.verbose {
			fmt.Printf("Subtitle download error: %v\n", err)
			fmt.Printf("Stderr: %s\n", result.Stderr)
		}
		return "", fmt.Errorf("downloading subtitles: %w", err)
	}

	srtPath, err := yt.findSubtitleFile(videoID)
	if err != nil {
		return "", err
	}

	return yt.processSrtTranscript(srtPath)
}

// findSubtitleFile locates the downloaded SRT file for a video
func (yt *YouTube) findSubtitleFile(videoID string) (string, error) {
	entries, err := os.ReadDir(yt.cacheDir)
	if err != nil {
		return "", fmt.Errorf("reading cache directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, videoID) && strings.HasSuffix(name, ".srt") {
			return filepath.Join(yt.cacheDir, name), nil
		}
	}

	return "", fmt.Errorf("no subtitle files found for %s", videoID)
}

// processSrtTranscript converts SRT to clean plain text and removes the
// cached file afterwards.
func (yt *YouTube) processSrtTranscript(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("reading SRT file: %w", err)
	}

	lines := removeDuplicates(parseSRT(string(content)))

	var sb strings.Builder
	for i, line := range lines {
		sb.WriteString(line)
		if i < len(lines)-1 {
			sb.WriteString("\n")
		}
	}
	text := strings.TrimSpace(sb.String())

	if err := os.Remove(filePath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to remove SRT file from cache: %v\n", err)
	}

	if text == "" {
		return "", fmt.Errorf("empty transcript in %s", filepath.Base(filePath))
	}

	return text, nil
}

// parseSRT extracts text content from SRT format
func parseSRT(content string) []string {
	var lines []string

	for block := range strings.SplitSeq(content, "\n\n") {
		blockLines := strings.Split(block, "\n")
		if len(blockLines) >= 3 {
			// Skip sequence number and timestamp, get text lines
			for i := 2; i < len(blockLines); i++ {
				if strings.TrimSpace(blockLines[i]) != "" {
					lines = append(lines, strings.TrimSpace(blockLines[i]))
				}
			}
		}
	}

	return lines
}

// removeDuplicates eliminates consecutive repeated lines
func removeDuplicates(lines []string) []string {
	result := make([]string, 0, len(lines))
	prevLine := ""

	for _, line := range lines {
		isDuplicate := prevLine != "" && (strings.Contains(line, prevLine) || strings.Contains(prevLine, line))
		if !isDuplicate {
			result = append(result, line)
		}
		prevLine = line
	}

	return result
}

// extractSubtitleInfo extracts subtitle availability from yt-dlp JSON output
func extractSubtitleInfo(rawData map[string]any) bool {
	if subtitles, ok := rawData["subtitles"].(map[string]any); ok && len(subtitles) > 0 {
		return true
	}

	if autoCaptions, ok := rawData["automatic_captions"].(map[string]any); ok && len(autoCaptions) > 0 {
		return true
	}

	return false
}
