package model

import "github.com/google/uuid"

type ComplaintStatus string

const (
	ComplaintPending    ComplaintStatus = "Pending"
	ComplaintInProgress ComplaintStatus = "In Progress"
	ComplaintResolved   ComplaintStatus = "Resolved"
)

type Complaint struct {
	BaseModel
	OwnerID     uuid.UUID       `gorm:"type:uuid;index;not null" json:"owner_id"`
	Owner       *User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Subject     string          `gorm:"type:varchar(255);not null" json:"subject" validate:"required"`
	Description string          `gorm:"type:text;not null" json:"description" validate:"required"`
	Image       string          `gorm:"type:text" json:"image"`
	Status      ComplaintStatus `gorm:"type:varchar(20);default:'Pending'" json:"status"`
	// DeveloperResponse is set by admins only.
	DeveloperResponse string `gorm:"type:text" json:"developer_response"`
}
