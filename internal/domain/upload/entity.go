package upload

import "time"

// Upload is a stored file. Its JSON form doubles as a chat attachment
// descriptor: {url, type, name}.
type Upload struct {
	ID           string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	UserID       int64     `gorm:"column:user_id;index" json:"user_id"`
	OriginalName string    `gorm:"column:original_name" json:"name"`
	StorageKey   string    `gorm:"column:storage_key" json:"-"`
	FileURL      string    `gorm:"column:file_url" json:"url"`
	MimeType     string    `gorm:"column:mime_type" json:"type"`
	Size         int64     `gorm:"column:size" json:"size"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Upload) TableName() string { return "uploads" }
