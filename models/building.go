package models

import (
	"time"

	"gorm.io/datatypes"
)

// Building is an optional footprint attached to one Address.
type Building struct {
	ID              string          `gorm:"primaryKey;size:64" json:"id"`
	AddressID       *string         `gorm:"size:64;index" json:"addressId,omitempty"`
	DetectionMethod DetectionMethod `gorm:"size:20;not null;default:manual" json:"detectionMethod"`
	ConfidenceScore string          `gorm:"size:6;not null;default:'0.00'" json:"confidenceScore"`
	BuildingType    string          `gorm:"size:50;not null;default:residential" json:"buildingType"` // residential, commercial, public, mixed
	FloorCount      int             `gorm:"not null;default:1" json:"floorCount"`
	RoofMaterial    *string         `gorm:"size:50" json:"roofMaterial,omitempty"`
	PolygonData     datatypes.JSON  `gorm:"" json:"polygonData,omitempty"` // GeoJSON geometry
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"createdAt"`

	FootprintAreaSqm *string `gorm:"-" json:"footprintAreaSqm,omitempty"` // derived from PolygonData
}

func (Building) TableName() string {
	return "buildings"
}
