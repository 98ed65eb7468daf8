package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Stats posts payment audit events to the stat-slip endpoint. Callers treat
// delivery as best effort; an error here never fails the primary operation.
type Stats struct {
	url  string
	http *http.Client
}

// NewStats builds the audit sink client.
func NewStats(url string, timeout time.Duration) *Stats {
	return &Stats{url: url, http: &http.Client{Timeout: timeout}}
}

// Emit sends one audit event. The response body is drained and discarded;
// only the status matters.
func (s *Stats) Emit(category, detail, status, amount string) error {
	body, _ := json.Marshal(map[string]string{
		"category": category,
		"detail":   detail,
		"status":   status,
		"amount":   amount,
	})
	resp, err := s.http.Post(s.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("stat-slip: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("stat-slip: status %d", resp.StatusCode)
	}
	return nil
}
