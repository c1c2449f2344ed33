package projects

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Project is one submitted intake form. It is created once and never mutated.
type Project struct {
	ID              int64
	Name            string
	Size            string
	Budget          pgtype.Numeric
	Timeline        *int
	Industry        string
	AdditionalInfo  string
	DocumentContent string
	AttachmentName  string
	AttachmentKey   string
	CreatedAt       time.Time
}
