package models

import "time"

// Display content types accepted from the upload form.
const (
	ContentImage = "image"
	ContentText  = "text"
)

// PendingUpload is content staged after submission but before payment
// confirmation. It lives only in memory: once confirmed it belongs to the
// admin backend, once expired it is gone.
type PendingUpload struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Type       string    `json:"type"` // image | text
	Time       string    `json:"time"` // requested display duration (seconds)
	Price      string    `json:"price"`
	Sender     string    `json:"sender"`
	TextColor  string    `json:"textColor,omitempty"`
	SocialType string    `json:"socialType,omitempty"`
	SocialName string    `json:"socialName,omitempty"`
	FileName   string    `json:"file,omitempty"`
	FilePath   string    `json:"-"` // staged binary, owned by the store
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"timestamp"`
}
