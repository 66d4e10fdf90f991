package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// ReceiptUploader pushes a payment-receipt image to the external image
// host and returns its public URL.
type ReceiptUploader interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

// ImageHostUploader talks to the hosted image API: a multipart POST
// with the file, an unsigned upload preset and a destination folder.
type ImageHostUploader struct {
	endpoint string
	preset   string
	folder   string
	client   *http.Client
}

func NewImageHostUploader(endpoint, preset, folder string) *ImageHostUploader {
	return &ImageHostUploader{
		endpoint: endpoint,
		preset:   preset,
		folder:   folder,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (u *ImageHostUploader) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write receipt bytes: %w", err)
	}
	if err := writer.WriteField("upload_preset", u.preset); err != nil {
		return "", fmt.Errorf("failed to write upload preset: %w", err)
	}
	if err := writer.WriteField("folder", u.folder); err != nil {
		return "", fmt.Errorf("failed to write folder: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("receipt upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("receipt upload failed: status %d: %s", resp.StatusCode, payload)
	}

	var result struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}

	if result.SecureURL != "" {
		return result.SecureURL, nil
	}
	if result.URL != "" {
		return result.URL, nil
	}
	return "", fmt.Errorf("upload response carried no URL")
}
