package services

import (
	"fmt"
	"time"

	"github.com/agora-forum/api-go/models"
	"gorm.io/gorm"
)

// Publishable is a record carrying a models.Publication.
type Publishable interface {
	GetPublication() *models.Publication
}

// ToggleStatus flips record between active and inactive and persists the result.
// Authorization is the caller's job.
func ToggleStatus(tx *gorm.DB, record Publishable, now time.Time) (models.Status, error) {
	pub := record.GetPublication()
	status := pub.ToggleStatus(now)

	err := tx.Model(record).Updates(map[string]interface{}{
		"status":       pub.Status,
		"publish_date": pub.PublishDate,
	}).Error
	if err != nil {
		return "", fmt.Errorf("failed to toggle status: %w", err)
	}
	return status, nil
}
