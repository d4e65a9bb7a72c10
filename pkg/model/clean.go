// Package model holds the wire types shared by the HTTP API and the worker.
package model

// CleanRequest asks the service to clean a single URL.
type CleanRequest struct {
	URL string `json:"url" validate:"required,max=2048"`
}

// BatchCleanRequest asks the service to clean several URLs in one call,
// mirroring how a chat message may carry several links.
type BatchCleanRequest struct {
	URLs []string `json:"urls" validate:"required,min=1,max=50,dive,required,max=2048"`
}

// CleanResult is the outcome for one URL. When nothing needed cleaning,
// Changed is false, Cleaned repeats the original and Reason carries the
// benign outcome code.
type CleanResult struct {
	Original string `json:"original"`
	Cleaned  string `json:"cleaned"`
	Changed  bool   `json:"changed"`
	Reason   string `json:"reason,omitempty"`
}

// ChatMessage is the inbound worker payload: raw chat text that may contain
// URLs anywhere inside it.
type ChatMessage struct {
	ChatID string `json:"chat_id" validate:"required"`
	Text   string `json:"text" validate:"required"`
}

// CleanedLinkEvent is published for every link whose cleaned form differs
// from what the user posted.
type CleanedLinkEvent struct {
	ChatID   string `json:"chat_id"`
	Original string `json:"original"`
	Cleaned  string `json:"cleaned"`
}
