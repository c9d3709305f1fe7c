package models

import (
	"time"

	"gorm.io/datatypes"
)

// Address is the central street-address record.
// Quartier and Commune are free text and are not linked to the region tables.
type Address struct {
	ID                 string             `gorm:"primaryKey;size:64" json:"id"`
	FullAddress        string             `gorm:"not null" json:"fullAddress"`
	Zone               *string            `gorm:"size:50" json:"zone,omitempty"`
	Street             *string            `gorm:"size:100" json:"street,omitempty"`
	DoorNumber         *string            `gorm:"size:20" json:"doorNumber,omitempty"`
	Quartier           *string            `gorm:"size:100" json:"quartier,omitempty"`
	Commune            *string            `gorm:"size:100" json:"commune,omitempty"`
	ProvinceID         *string            `gorm:"size:64;index" json:"provinceId,omitempty"`
	Latitude           *string            `gorm:"size:16" json:"latitude,omitempty"`
	Longitude          *string            `gorm:"size:16" json:"longitude,omitempty"`
	EmergencyContacts  datatypes.JSON     `gorm:"" json:"emergencyContacts,omitempty"` // {"police": "+243...", ...}
	ServiceIcons       datatypes.JSON     `gorm:"" json:"serviceIcons,omitempty"`      // ["police", "hospital", ...]
	VerificationStatus VerificationStatus `gorm:"size:20;not null;default:unverified;index" json:"verificationStatus"`
	ConfidenceScore    string             `gorm:"size:6;not null;default:'0.00'" json:"confidenceScore"`
	DataSource         DataSource         `gorm:"size:20;not null;default:manual_survey;index" json:"dataSource"`
	CreatedBy          *string            `gorm:"size:64" json:"createdBy,omitempty"`
	VerifiedBy         *string            `gorm:"size:64" json:"verifiedBy,omitempty"`
	CreatedAt          time.Time          `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt          time.Time          `gorm:"autoUpdateTime" json:"updatedAt"`
	VerifiedAt         *time.Time         `gorm:"" json:"verifiedAt,omitempty"`

	Province *Province `gorm:"foreignKey:ProvinceID" json:"-"`
}

// TableName explicitly sets the table name for GORM.
func (Address) TableName() string {
	return "addresses"
}

// ChangeLogEntry is one field-level edit of an Address. Rows are never updated or deleted.
type ChangeLogEntry struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id"`
	AddressID    string    `gorm:"size:64;not null;index" json:"addressId"`
	FieldChanged string    `gorm:"size:100;not null" json:"fieldChanged"`
	OldValue     *string   `gorm:"" json:"oldValue"`
	NewValue     *string   `gorm:"" json:"newValue"`
	ChangedBy    string    `gorm:"size:64" json:"changedBy"`
	ChangedAt    time.Time `gorm:"autoCreateTime" json:"changedAt"`
	Reason       *string   `gorm:"" json:"reason,omitempty"`
}

func (ChangeLogEntry) TableName() string {
	return "change_log"
}
