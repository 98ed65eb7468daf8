package slip

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Outcome classifies one verification attempt.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeMismatch Outcome = "mismatch"
	OutcomeNoFile   Outcome = "no-file"
	OutcomeOCRError Outcome = "ocr-error"
)

// Verdict is the result of a single slip verification. It is returned to the
// caller and forwarded to the stats collaborator, never stored.
type Verdict struct {
	Outcome Outcome
	Detail  string
}

// Success reports whether the slip was accepted.
func (v Verdict) Success() bool { return v.Outcome == OutcomeSuccess }

// Reader extracts text from a slip image. Implemented by pkg/ocr; tests
// substitute fakes.
type Reader interface {
	Recognize(path string) (string, error)
}

// AuditSink receives one payment event per terminal verification state.
// Emission is best effort; implementations must not be relied on to succeed.
type AuditSink interface {
	Emit(category, detail, status, amount string) error
}

// User-facing detail strings, matching what the screen frontend displays.
const (
	detailNoFile   = "ไม่พบไฟล์สลิป"
	detailOCRError = "OCR ผิดพลาด"
	detailMismatch = "ชำระเงินไม่ถูกต้อง หรือจำนวนเงินไม่ตรง"
)

// Service runs the slip verification pipeline: OCR the image, match the
// claimed amount against the extracted text, classify, audit.
type Service struct {
	reader     Reader
	audit      AuditSink
	ocrTimeout time.Duration
}

// NewService wires a verification service. ocrTimeout bounds a single
// Tesseract call; zero disables the bound.
func NewService(reader Reader, audit AuditSink, ocrTimeout time.Duration) *Service {
	return &Service{reader: reader, audit: audit, ocrTimeout: ocrTimeout}
}

// Verify classifies one slip. filePath empty means the upload carried no
// file. Every terminal state emits exactly one audit event before returning;
// a failed emission is logged and swallowed.
func (s *Service) Verify(filePath, amount string) Verdict {
	if filePath == "" {
		return s.finish(Verdict{Outcome: OutcomeNoFile, Detail: detailNoFile}, amount)
	}

	text, err := s.recognize(filePath)
	if err != nil {
		log.WithError(err).WithField("file", filePath).Warn("slip OCR failed")
		return s.finish(Verdict{Outcome: OutcomeOCRError, Detail: detailOCRError}, amount)
	}

	if AmountMatches(text, amount) {
		detail := fmt.Sprintf("ชำระเงินสำเร็จ จำนวนเงิน: %s", amount)
		return s.finish(Verdict{Outcome: OutcomeSuccess, Detail: detail}, amount)
	}
	return s.finish(Verdict{Outcome: OutcomeMismatch, Detail: detailMismatch}, amount)
}

// recognize runs the reader under the configured deadline. Tesseract cannot
// be cancelled mid-call, so on timeout the goroutine is abandoned and its
// eventual result discarded.
func (s *Service) recognize(path string) (string, error) {
	if s.ocrTimeout <= 0 {
		return s.reader.Recognize(path)
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.ocrTimeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		text, err := s.reader.Recognize(path)
		ch <- result{text: text, err: err}
	}()
	select {
	case r := <-ch:
		return r.text, r.err
	case <-ctx.Done():
		return "", fmt.Errorf("ocr timed out after %s: %w", s.ocrTimeout, ctx.Err())
	}
}

// finish emits the audit event for a terminal state and returns the verdict.
func (s *Service) finish(v Verdict, amount string) Verdict {
	status := "failed"
	if v.Outcome == OutcomeSuccess {
		status = "success"
	}
	if s.audit != nil {
		if err := s.audit.Emit("payment", v.Detail, status, amount); err != nil {
			log.WithError(err).Warn("payment audit event not delivered")
		}
	}
	return v
}
