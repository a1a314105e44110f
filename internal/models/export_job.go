package models

import (
	"time"

	"github.com/google/uuid"
)

type ExportJob struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	Kind        ExportKind   `json:"kind" db:"kind"`
	Status      ExportStatus `json:"status" db:"status"`
	ObjectName  *string      `json:"object_name,omitempty" db:"object_name"`
	Error       *string      `json:"error,omitempty" db:"error"`
	RequestedBy string       `json:"requested_by" db:"requested_by"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty" db:"completed_at"`

	// filled on read once the artifact exists
	DownloadURL string `json:"download_url,omitempty" db:"-"`
}
