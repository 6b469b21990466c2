package model

import "github.com/google/uuid"

// DownloadKind names the table a download counter belongs to.
type DownloadKind string

const (
	DownloadKindEbook DownloadKind = "ebook"
	DownloadKindPaper DownloadKind = "paper"
)

// DownloadEvent is one queued download-counter increment. Events are
// serialized to JSON on the Redis queue and folded into batched UPDATEs by
// the download worker.
type DownloadEvent struct {
	Kind DownloadKind `json:"kind"`
	ID   uuid.UUID    `json:"id"`
}
