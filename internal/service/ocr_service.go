package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/lshigami/gradepro/config"
	"github.com/rs/zerolog/log"
)

// TextExtractor turns an uploaded PDF into a single text blob. How the text
// is produced (OCR, direct extraction) is the sidecar's concern.
type TextExtractor interface {
	ExtractText(ctx context.Context, pdfPath string) (string, error)
}

type httpTextExtractor struct {
	baseURL string
	httpc   *http.Client
}

func NewTextExtractor(cfg *config.Config) TextExtractor {
	if cfg.OcrServiceURL == "" {
		log.Warn().Msg("OCR_SERVICE_URL is not set. TextExtractor will be non-functional.")
	}
	return &httpTextExtractor{
		baseURL: cfg.OcrServiceURL,
		httpc:   &http.Client{Timeout: 120 * time.Second},
	}
}

type ocrResponse struct {
	Text string `json:"text"`
}

// ExtractText posts the PDF to the OCR service and returns the extracted
// text. Any failure here is fatal for the document: without text there is
// nothing to parse.
func (e *httpTextExtractor) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	if e.baseURL == "" {
		return "", fmt.Errorf("OCR service URL is not configured")
	}

	f, err := os.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf %s: %w", pdfPath, err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(pdfPath))
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("failed to read pdf %s: %w", pdfPath, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/extract", &body)
	if err != nil {
		return "", fmt.Errorf("failed to build OCR request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := e.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("OCR request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("OCR service returned %d: %s", resp.StatusCode, string(raw))
	}

	var out ocrResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode OCR response: %w", err)
	}
	return out.Text, nil
}
