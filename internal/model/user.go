package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents a business owner. Every Product, Customer, Invoice and
// Complaint is scoped to exactly one User.
type User struct {
	BaseModel
	Username            string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username" validate:"required"`
	Email               string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password            string `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	BusinessName        string `gorm:"type:varchar(255);not null" json:"business_name" validate:"required"`
	BusinessCategory    string `gorm:"type:varchar(100);default:'General'" json:"business_category"`
	BusinessDescription string `gorm:"type:text" json:"business_description"`

	IsVerified bool       `gorm:"default:false" json:"is_verified"`
	OTP        string     `gorm:"type:varchar(10)" json:"-"` // Transient verification state
	OTPExpiry  *time.Time `json:"-"`

	RefreshToken string `gorm:"type:text" json:"-"` // Transient session state
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID                  uuid.UUID `json:"id"`
	Username            string    `json:"username"`
	Email               string    `json:"email"`
	BusinessName        string    `json:"business_name"`
	BusinessCategory    string    `json:"business_category"`
	BusinessDescription string    `json:"business_description"`
	IsVerified          bool      `json:"is_verified"`
	CreatedAt           time.Time `json:"created_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:                  u.ID,
		Username:            u.Username,
		Email:               u.Email,
		BusinessName:        u.BusinessName,
		BusinessCategory:    u.BusinessCategory,
		BusinessDescription: u.BusinessDescription,
		IsVerified:          u.IsVerified,
		CreatedAt:           u.CreatedAt,
	}
}
