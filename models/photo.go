package models

import "time"

// Photo is a street sign, building or survey picture linked to an Address.
// Uploaded files additionally carry a thumbnail and the EXIF capture data.
type Photo struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	AddressID   string    `gorm:"size:64;not null;index" json:"addressId"`
	URL         string    `gorm:"not null" json:"url"`
	Type        PhotoType `gorm:"size:20;not null;default:survey" json:"type"`
	Description *string   `gorm:"" json:"description,omitempty"`
	UploadedBy  *string   `gorm:"size:64" json:"uploadedBy,omitempty"`
	UploadedAt  time.Time `gorm:"autoCreateTime" json:"uploadedAt"`

	StoragePath      *string    `gorm:"" json:"-"` // relative to the media storage root, uploads only
	ThumbnailURL     *string    `gorm:"" json:"thumbnailUrl,omitempty"`
	TakenAt          *time.Time `gorm:"" json:"takenAt,omitempty"`
	Latitude         *string    `gorm:"size:16" json:"latitude,omitempty"`
	Longitude        *string    `gorm:"size:16" json:"longitude,omitempty"`
	ProcessingStatus string     `gorm:"size:20;not null;default:notRequired" json:"processingStatus"`
	ProcessingError  *string    `gorm:"" json:"processingError,omitempty"`
}

func (Photo) TableName() string {
	return "photos"
}
