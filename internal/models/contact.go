package models

import "time"

// ContactMessage is a message left through the contact form. Only one message
// per email address is kept.
type ContactMessage struct {
	ID        string    `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Email     string    `json:"email" bson:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required"`
	Message   string    `json:"message" bson:"message" gorm:"type:text;not null" validate:"required"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// TableName keeps the relational table name readable.
func (ContactMessage) TableName() string {
	return "contact_messages"
}
