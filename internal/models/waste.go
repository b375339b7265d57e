package models

import (
	"time"

	"gorm.io/gorm"
)

type WasteStatus string

const (
	WasteStatusAvailable WasteStatus = "available"
	WasteStatusBooked    WasteStatus = "booked"
	WasteStatusCompleted WasteStatus = "completed"
)

// Editable reports whether the owner may still patch or delete the listing.
func (s WasteStatus) Editable() bool {
	return s == WasteStatusAvailable
}

// Waste is a listing of recoverable waste owned by a producer.
type Waste struct {
	ID          uint        `gorm:"primarykey" json:"id"`
	ProducerID  uint        `gorm:"index;not null" json:"producer_id"`
	ParentID    *uint       `gorm:"index" json:"parent_id,omitempty"`
	Title       string      `gorm:"size:255;not null" json:"title"`
	Category    string      `gorm:"size:50;index;not null" json:"category"`
	Weight      float64     `gorm:"not null" json:"weight"`
	Price       float64     `gorm:"not null;default:0" json:"price"`
	Description string      `gorm:"type:text" json:"description"`
	ImageURL    string      `json:"image_url"`
	Latitude    *float64    `json:"latitude"`
	Longitude   *float64    `json:"longitude"`
	Address     string      `json:"address"`
	Status      WasteStatus `gorm:"size:20;index;not null;default:'available'" json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	// Deleted listings stay referenced by their cancelled bookings.
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Producer *User `gorm:"foreignKey:ProducerID" json:"producer,omitempty"`
}

type CreateWasteInput struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Category    string   `json:"category" validate:"required,max=50"`
	Weight      float64  `json:"weight" validate:"gt=0"`
	Price       float64  `json:"price" validate:"gte=0"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
	Address     string   `json:"address"`
}

// UpdateWasteInput is a partial patch: nil fields are left untouched.
type UpdateWasteInput struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=255"`
	Category    *string  `json:"category" validate:"omitempty,min=1,max=50"`
	Weight      *float64 `json:"weight" validate:"omitempty,gt=0"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"image_url"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
	Address     *string  `json:"address"`
}

// Apply copies the set fields of the patch onto w.
func (in *UpdateWasteInput) Apply(w *Waste) {
	if in.Title != nil {
		w.Title = *in.Title
	}
	if in.Category != nil {
		w.Category = *in.Category
	}
	if in.Weight != nil {
		w.Weight = *in.Weight
	}
	if in.Price != nil {
		w.Price = *in.Price
	}
	if in.Description != nil {
		w.Description = *in.Description
	}
	if in.ImageURL != nil {
		w.ImageURL = *in.ImageURL
	}
	if in.Latitude != nil {
		w.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		w.Longitude = in.Longitude
	}
	if in.Address != nil {
		w.Address = *in.Address
	}
}

// WasteFilter narrows the public catalog.
type WasteFilter struct {
	Category string
	Query    string
}
