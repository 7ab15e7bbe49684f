package model

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	BaseModel
	OwnerID     uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	Owner       *User     `gorm:"foreignKey:OwnerID" json:"-"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Barcode     string    `gorm:"type:varchar(20);index" json:"barcode"`
	Description string    `gorm:"type:text" json:"description"`
	Price       int64     `gorm:"not null;default:0" json:"price" validate:"required"`
	Stock       int       `gorm:"default:0" json:"stock"`
	Category    string    `gorm:"type:varchar(100);default:'Uncategorized'" json:"category"`
	Image       string    `gorm:"type:text" json:"image"`
}

// BeforeCreate assigns the UUID and, when absent, an 8-digit numeric barcode.
// The barcode is generated exactly once; updates never regenerate it.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if err := p.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if p.Barcode == "" {
		code, err := RandomNumericCode(8)
		if err != nil {
			return err
		}
		p.Barcode = code
	}
	return nil
}

// RandomNumericCode returns a uniformly random numeric string of the given
// length with a non-zero leading digit.
func RandomNumericCode(digits int) (string, error) {
	low := int64(1)
	for i := 1; i < digits; i++ {
		low *= 10
	}
	n, err := rand.Int(rand.Reader, big.NewInt(low*9))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", low+n.Int64()), nil
}
