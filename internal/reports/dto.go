package reports

import (
	"time"

	"github.com/riderhub/riderhub-backend/pkg/db/models"
	"github.com/riderhub/riderhub-backend/pkg/enums"
	"github.com/riderhub/riderhub-backend/pkg/jsonfield"
)

type CreateReportRequest struct {
	Title   string           `json:"title" validate:"required,max=255"`
	Type    enums.ReportType `json:"type" validate:"required,enum"`
	Content any              `json:"content"`
}

type UpdateReportRequest struct {
	Title   *string           `json:"title" validate:"omitempty,min=1,max=255"`
	Type    *enums.ReportType `json:"type" validate:"omitempty,enum"`
	Content any               `json:"content"`
}

// GenerateRequest asks for a computed summary. From and To bound the rows
// by created_at when set.
type GenerateRequest struct {
	Type  enums.ReportType `json:"type" validate:"required,enum"`
	Title string           `json:"title" validate:"max=255"`
	From  *time.Time       `json:"from"`
	To    *time.Time       `json:"to"`
}

type ListFilter struct {
	UserID *uint
	Type   *enums.ReportType
}

// Report is the API view of a stored report with its content decoded.
type Report struct {
	ID        uint             `json:"id"`
	UserID    uint             `json:"userId"`
	Title     string           `json:"title"`
	Type      enums.ReportType `json:"type"`
	Content   any              `json:"content"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

type ReportPage struct {
	Items      []Report `json:"items"`
	NextCursor string   `json:"nextCursor,omitempty"`
}

func toView(m *models.Report) *Report {
	return &Report{
		ID:        m.ID,
		UserID:    m.UserID,
		Title:     m.Title,
		Type:      m.Type,
		Content:   jsonfield.Parse(m.Content),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
