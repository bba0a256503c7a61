package models

import "gorm.io/gorm"

// Notification is a stored event notification for a user. Delivery is
// best-effort; workflows never fail because a notification could not be
// written or published.
type Notification struct {
	ID               string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID           string `json:"user_id" gorm:"index;type:varchar(36)"`
	NotificationType string `json:"notification_type" gorm:"type:varchar(50)"`
	Content          string `json:"content" gorm:"type:text"`
	RelatedEntityID  string `json:"related_entity_id,omitempty" gorm:"type:varchar(36)"`
	IsRead           bool   `json:"is_read"`
	gorm.Model
}
