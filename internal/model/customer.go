package model

import "github.com/google/uuid"

type Customer struct {
	BaseModel
	OwnerID uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	Owner   *User     `gorm:"foreignKey:OwnerID" json:"-"`
	Name    string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Email   string    `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Phone   string    `gorm:"type:varchar(20);not null;index" json:"phone" validate:"required"`
	Address string    `gorm:"type:varchar(255);default:'Rajkot'" json:"address"`
}
