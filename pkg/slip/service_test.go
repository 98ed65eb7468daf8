package slip

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeReader struct {
	text  string
	err   error
	delay time.Duration
}

func (f *fakeReader) Recognize(path string) (string, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.text, f.err
}

type recordingSink struct {
	events []map[string]string
	err    error
}

func (r *recordingSink) Emit(category, detail, status, amount string) error {
	r.events = append(r.events, map[string]string{
		"category": category, "detail": detail, "status": status, "amount": amount,
	})
	return r.err
}

func TestVerifyNoFile(t *testing.T) {
	sink := &recordingSink{}
	svc := NewService(&fakeReader{}, sink, 0)
	v := svc.Verify("", "1500")
	if v.Outcome != OutcomeNoFile || v.Success() {
		t.Fatalf("expected no-file verdict, got %+v", v)
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected exactly one audit event, got %d", len(sink.events))
	}
	ev := sink.events[0]
	if ev["category"] != "payment" || ev["status"] != "failed" || ev["amount"] != "1500" {
		t.Fatalf("unexpected audit event: %+v", ev)
	}
}

func TestVerifyOCRError(t *testing.T) {
	sink := &recordingSink{}
	svc := NewService(&fakeReader{err: errors.New("tesseract exploded")}, sink, 0)
	v := svc.Verify("slip.jpg", "1500")
	if v.Outcome != OutcomeOCRError {
		t.Fatalf("expected ocr-error verdict, got %+v", v)
	}
	// raw collaborator error stays internal; the caller sees the detail string
	if strings.Contains(v.Detail, "exploded") {
		t.Fatalf("collaborator error leaked into detail: %q", v.Detail)
	}
	if len(sink.events) != 1 || sink.events[0]["status"] != "failed" {
		t.Fatalf("unexpected audit events: %+v", sink.events)
	}
}

func TestVerifySuccess(t *testing.T) {
	sink := &recordingSink{}
	svc := NewService(&fakeReader{text: "จำนวน 1500.00บาท"}, sink, 0)
	v := svc.Verify("slip.jpg", "1500")
	if !v.Success() {
		t.Fatalf("expected success, got %+v", v)
	}
	if len(sink.events) != 1 || sink.events[0]["status"] != "success" {
		t.Fatalf("unexpected audit events: %+v", sink.events)
	}
}

func TestVerifyMismatch(t *testing.T) {
	sink := &recordingSink{}
	svc := NewService(&fakeReader{text: "จำนวน 999.00บาท"}, sink, 0)
	v := svc.Verify("slip.jpg", "1500")
	if v.Outcome != OutcomeMismatch || v.Detail == "" {
		t.Fatalf("expected mismatch with detail, got %+v", v)
	}
}

func TestVerifyAuditFailureDoesNotFailVerdict(t *testing.T) {
	sink := &recordingSink{err: errors.New("stats down")}
	svc := NewService(&fakeReader{text: "1500บาท"}, sink, 0)
	if v := svc.Verify("slip.jpg", "1500"); !v.Success() {
		t.Fatalf("audit failure must not change the verdict, got %+v", v)
	}
}

func TestVerifyOCRTimeout(t *testing.T) {
	sink := &recordingSink{}
	svc := NewService(&fakeReader{text: "1500บาท", delay: 200 * time.Millisecond}, sink, 10*time.Millisecond)
	v := svc.Verify("slip.jpg", "1500")
	if v.Outcome != OutcomeOCRError {
		t.Fatalf("expected ocr-error on timeout, got %+v", v)
	}
}
