package models

import (
	"time"

	"gorm.io/gorm"
)

// File is one uploaded file's metadata row. The bytes themselves live in the
// blob directory under StoredName.
type File struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	StoredName string    `gorm:"uniqueIndex;not null" json:"storedName"`
	Mimetype   string    `json:"mimetype"`
	Size       int64     `gorm:"not null" json:"size"`
	CreatedAt  time.Time `json:"createdAt"`
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&File{})
}
