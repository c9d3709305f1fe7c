package models

import "time"

// Province is the top level administrative division.
// It corresponds to the 'provinces' table.
type Province struct {
	ID                 string    `gorm:"primaryKey;size:64" json:"id"`
	Name               string    `gorm:"not null;size:100" json:"name"`
	Code               string    `gorm:"not null;unique;size:10" json:"code"`
	Population         *int      `gorm:"" json:"population,omitempty"`
	AreaSqkm           *string   `gorm:"size:16" json:"areaSqkm,omitempty"`
	CapitalCity        *string   `gorm:"size:100" json:"capitalCity,omitempty"`
	MappingProgress    string    `gorm:"size:12;not null;default:'0.00'" json:"mappingProgress"` // completed/target*100, 2 decimals
	TargetAddresses    int       `gorm:"not null;default:0" json:"targetAddresses"`
	CompletedAddresses int       `gorm:"not null;default:0" json:"completedAddresses"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName explicitly sets the table name for GORM.
func (Province) TableName() string {
	return "provinces"
}

// Commune belongs to a Province.
type Commune struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	Name       string    `gorm:"not null;size:100" json:"name"`
	Code       string    `gorm:"not null;size:10" json:"code"`
	ProvinceID *string   `gorm:"size:64;index" json:"provinceId,omitempty"`
	Population *int      `gorm:"" json:"population,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`

	Province *Province `gorm:"foreignKey:ProvinceID" json:"-"`
}

func (Commune) TableName() string {
	return "communes"
}

// Quartier is a neighbourhood inside a Commune.
type Quartier struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"not null;size:100" json:"name"`
	Code      string    `gorm:"not null;size:10" json:"code"`
	CommuneID *string   `gorm:"size:64;index" json:"communeId,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`

	Commune *Commune `gorm:"foreignKey:CommuneID" json:"-"`
}

func (Quartier) TableName() string {
	return "quartiers"
}
