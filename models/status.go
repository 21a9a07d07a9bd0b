package models

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Publication carries the moderation state shared by posts and comments.
type Publication struct {
	Status      Status    `gorm:"not null;default:'active';size:16;index" json:"status"`
	PublishDate time.Time `json:"publishDate"`
}

// ToggleStatus flips active and inactive. Reactivation republishes the record at now;
// deactivation keeps the previous publish date.
func (p *Publication) ToggleStatus(now time.Time) Status {
	if p.Status == StatusInactive {
		p.Status = StatusActive
		p.PublishDate = now
	} else {
		p.Status = StatusInactive
	}
	return p.Status
}

func (p *Publication) IsActive() bool {
	return p.Status == StatusActive
}

func (p *Publication) GetPublication() *Publication {
	return p
}
