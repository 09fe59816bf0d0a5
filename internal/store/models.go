package store

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spigell/fit-advisor/internal/fit"
)

type User struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Email        string        `gorm:"uniqueIndex;not null" json:"email"`
	Name         string        `json:"name"`
	Measurements *Measurements `gorm:"foreignKey:UserID" json:"measurements,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// Measurements are a user's body measurements in centimeters. A user has at
// most one set; unknown values stay NULL.
type Measurements struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"userId"`
	Bust      *float64  `json:"bust"`
	Waist     *float64  `json:"waist"`
	Hip       *float64  `json:"hip"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Values returns the known measurements.
func (m *Measurements) Values() fit.Measurements {
	out := fit.Measurements{}
	if m == nil {
		return out
	}
	setIfKnown(out, fit.Bust, m.Bust)
	setIfKnown(out, fit.Waist, m.Waist)
	setIfKnown(out, fit.Hip, m.Hip)
	return out
}

// Product is a catalog garment with its flat measurements in centimeters.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	FitCategory fit.Category    `gorm:"index;not null" json:"fitCategory"`
	Chest       *float64        `json:"chest"`
	Waist       *float64        `json:"waist"`
	Hip         *float64        `json:"hip"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Measurements returns the known garment measurements.
func (p *Product) Measurements() fit.Measurements {
	out := fit.Measurements{}
	if p == nil {
		return out
	}
	setIfKnown(out, fit.Chest, p.Chest)
	setIfKnown(out, fit.Waist, p.Waist)
	setIfKnown(out, fit.Hip, p.Hip)
	return out
}

func setIfKnown(m fit.Measurements, key fit.Measurement, v *float64) {
	if v != nil {
		m[key] = *v
	}
}

// UserInput carries user fields for create and update. Nil fields are left
// untouched on update.
type UserInput struct {
	Email *string `mapstructure:"email"`
	Name  *string `mapstructure:"name"`
}

// ProductInput carries product fields for create and update.
type ProductInput struct {
	Name        *string          `mapstructure:"name"`
	FitCategory *string          `mapstructure:"fitCategory"`
	Chest       *float64         `mapstructure:"chest"`
	Waist       *float64         `mapstructure:"waist"`
	Hip         *float64         `mapstructure:"hip"`
	Price       *decimal.Decimal `mapstructure:"-"`
}

// MeasurementsInput carries body measurements for create and update.
type MeasurementsInput struct {
	Bust  *float64 `mapstructure:"bust"`
	Waist *float64 `mapstructure:"waist"`
	Hip   *float64 `mapstructure:"hip"`
}

// ProductFilter narrows product listings. Empty fields match everything.
type ProductFilter struct {
	Categories []fit.Category
}
