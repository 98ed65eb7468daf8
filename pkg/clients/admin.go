// Package clients holds thin HTTP clients for the external collaborators:
// the admin backend (system of record), its stats endpoint (audit sink) and
// the SMSMKT OTP gateway.
package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"screenpay/models"
)

// Admin talks to the admin backend that owns confirmed content.
type Admin struct {
	baseURL string
	http    *http.Client
}

// NewAdmin builds a client for the admin backend. The timeout also bounds
// how long a payment confirmation can block on the hand-off.
func NewAdmin(baseURL string, timeout time.Duration) *Admin {
	return &Admin{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

// ForwardUpload delivers a confirmed upload, including the staged file if
// present, as the multipart form the admin backend expects.
func (a *Admin) ForwardUpload(u *models.PendingUpload) error {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	textColor := u.TextColor
	if textColor == "" {
		textColor = "white"
	}
	fields := map[string]string{
		"text":      u.Text,
		"type":      u.Type,
		"time":      u.Time,
		"price":     u.Price,
		"sender":    u.Sender,
		"textColor": textColor,
	}
	if u.SocialType != "" {
		fields["socialType"] = u.SocialType
		fields["socialName"] = u.SocialName
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("write field %s: %w", k, err)
		}
	}
	if u.FilePath != "" {
		f, err := os.Open(u.FilePath)
		if err != nil {
			return fmt.Errorf("open staged file: %w", err)
		}
		defer f.Close()
		part, err := mw.CreateFormFile("file", u.FileName)
		if err != nil {
			return fmt.Errorf("create file part: %w", err)
		}
		if _, err := io.Copy(part, f); err != nil {
			return fmt.Errorf("copy staged file: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	resp, err := a.http.Post(a.baseURL+"/api/upload", mw.FormDataContentType(), buf)
	if err != nil {
		return fmt.Errorf("admin upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("admin upload rejected: status %d", resp.StatusCode)
	}
	return nil
}

// ForwardReport relays a user report to the admin backend.
func (a *Admin) ForwardReport(category, detail string) error {
	body, _ := json.Marshal(map[string]string{"category": category, "detail": detail})
	resp, err := a.http.Post(a.baseURL+"/api/report", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("admin report: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var out struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&out)
		if out.Message != "" {
			return fmt.Errorf("admin report rejected: %s", out.Message)
		}
		return fmt.Errorf("admin report rejected: status %d", resp.StatusCode)
	}
	return nil
}
