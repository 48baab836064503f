package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EmploymentActive     = "ACTIVE"
	EmploymentOnNotice   = "ON_NOTICE"
	EmploymentTerminated = "TERMINATED"
)

type Employee struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeNumber   string     `gorm:"type:varchar(20);not null;uniqueIndex:uq_employee_number"`
	FullName         string     `gorm:"type:varchar(150);not null"`
	Email            string     `gorm:"type:varchar(150);not null;uniqueIndex:uq_employee_email"`
	Phone            string     `gorm:"type:varchar(30)"`
	ManagerID        *uuid.UUID `gorm:"type:uuid;index"`
	EmploymentStatus string     `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	CountryCode      string     `gorm:"type:varchar(2);not null;default:'IN'"`
	HireDate         time.Time  `gorm:"type:date;not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`

	Manager *ManagerRef `gorm:"foreignKey:ManagerID;references:ID"`
}

func (Employee) TableName() string {
	return "employees"
}

type ManagerRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
}

func (ManagerRef) TableName() string {
	return "employees"
}
