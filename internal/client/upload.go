package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultUploadURL is the local file-processing server.
const DefaultUploadURL = "http://127.0.0.1:5000"

// MaxUploadSize is the largest file the server accepts.
const MaxUploadSize = 16 << 20

// AllowedExtensions lists the file types the server can read text from.
var AllowedExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

var (
	// ErrUnsupportedFile is returned for files the server cannot process.
	ErrUnsupportedFile = errors.New("unsupported file type, upload a PDF or image file")
	// ErrFileTooLarge is returned for files above MaxUploadSize.
	ErrFileTooLarge = errors.New("file too large, maximum size allowed is 16MB")
)

// FileInfo describes the processed upload.
type FileInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// ProcessResult is the server's answer to an upload.
type ProcessResult struct {
	Success       bool     `json:"success"`
	ExtractedText string   `json:"extracted_text"`
	Summary       string   `json:"summary"`
	DownloadURL   string   `json:"download_url"`
	FileInfo      FileInfo `json:"file_info"`
	Error         string   `json:"error,omitempty"`
}

// Uploader sends PDF and image files to the file-processing server.
type Uploader struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewUploader creates an Uploader. An empty baseURL selects DefaultUploadURL.
func NewUploader(baseURL string, timeout time.Duration) *Uploader {
	if baseURL == "" {
		baseURL = DefaultUploadURL
	}
	return &Uploader{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// CheckFile validates the extension and size of path before upload.
func CheckFile(path string) (os.FileInfo, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !AllowedExtensions[ext] {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFile)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxUploadSize {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrFileTooLarge)
	}
	return info, nil
}

// Process uploads the file at path and returns the server's summary.
func (u *Uploader) Process(ctx context.Context, path string) (*ProcessResult, error) {
	if _, err := CheckFile(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.BaseURL+"/process", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient(u.HTTPClient).Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", filepath.Base(path), err)
	}
	defer resp.Body.Close()

	var result ProcessResult
	if err := decodeResponse(resp, &result); err != nil {
		return nil, fmt.Errorf("upload %s: %w", filepath.Base(path), err)
	}
	if result.Error != "" {
		return nil, &ServiceError{Message: result.Error}
	}
	if strings.TrimSpace(result.Summary) == "" {
		return nil, ErrEmptyResponse
	}
	return &result, nil
}

// Download writes the file behind downloadURL to w. Relative URLs, as
// returned in ProcessResult.DownloadURL, are resolved against BaseURL.
func (u *Uploader) Download(ctx context.Context, downloadURL string, w io.Writer) (int64, error) {
	target, err := u.resolve(downloadURL)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, err
	}
	resp, err := httpClient(u.HTTPClient).Do(req)
	if err != nil {
		return 0, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, decodeResponse(resp, nil)
	}
	return io.Copy(w, resp.Body)
}

// Health reports whether the file-processing server answers.
func (u *Uploader) Health(ctx context.Context) (HealthStatus, error) {
	var status HealthStatus
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.BaseURL+"/health", nil)
	if err != nil {
		return status, err
	}
	resp, err := httpClient(u.HTTPClient).Do(req)
	if err != nil {
		return status, fmt.Errorf("health: %w", err)
	}
	defer resp.Body.Close()
	if err := decodeResponse(resp, &status); err != nil {
		return status, fmt.Errorf("health: %w", err)
	}
	return status, nil
}

func (u *Uploader) resolve(ref string) (string, error) {
	base, err := url.Parse(u.BaseURL + "/")
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid download URL %q: %w", ref, err)
	}
	return base.ResolveReference(r).String(), nil
}
