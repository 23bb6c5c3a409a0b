package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// youtubeURL matches the watch and short-link forms the server accepts.
var youtubeURL = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com/watch\?v=|youtu\.be/)[\w-]+`)

var (
	// ErrNoVideoURL is returned when ProcessVideo is called without a URL.
	ErrNoVideoURL = errors.New("no video URL provided")
	// ErrInvalidVideoURL is returned for URLs that are not YouTube videos.
	ErrInvalidVideoURL = errors.New("please provide a valid YouTube URL")
)

// VideoMetadata describes a processed video.
type VideoMetadata struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	// Length is the duration in seconds.
	Length int64 `json:"length"`
	Views  int64 `json:"views"`
}

// VideoResult is the server's answer to a video request. Transcript is
// shortened by the server; the full text is in the download.
type VideoResult struct {
	Success          bool          `json:"success"`
	Summary          string        `json:"summary"`
	Transcript       string        `json:"transcript"`
	Metadata         VideoMetadata `json:"metadata"`
	DownloadURL      string        `json:"download_url"`
	ProcessingMethod string        `json:"processing_method"`
	Error            string        `json:"error,omitempty"`
}

// IsVideoURL reports whether s is a YouTube video URL the server accepts.
func IsVideoURL(s string) bool {
	return youtubeURL.MatchString(s)
}

// ProcessVideo asks the server to transcribe and summarize the video at
// videoURL. The URL is checked locally before anything is sent.
func (u *Uploader) ProcessVideo(ctx context.Context, videoURL string) (*VideoResult, error) {
	videoURL = strings.TrimSpace(videoURL)
	if videoURL == "" {
		return nil, ErrNoVideoURL
	}
	if !IsVideoURL(videoURL) {
		return nil, fmt.Errorf("%s: %w", videoURL, ErrInvalidVideoURL)
	}

	form := url.Values{"video_url": {videoURL}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.BaseURL+"/process-video", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient(u.HTTPClient).Do(req)
	if err != nil {
		return nil, fmt.Errorf("process video: %w", err)
	}
	defer resp.Body.Close()

	var result VideoResult
	if err := decodeResponse(resp, &result); err != nil {
		return nil, fmt.Errorf("process video: %w", err)
	}
	if result.Error != "" || !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "video processing failed"
		}
		return nil, &ServiceError{Message: msg}
	}
	if strings.TrimSpace(result.Summary) == "" {
		return nil, ErrEmptyResponse
	}
	return &result, nil
}
