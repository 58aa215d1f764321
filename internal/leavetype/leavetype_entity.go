package leavetype

import (
	"time"
)

// LeaveType is the registry record for one kind of leave. Name is the
// immutable identity for the life of the record.
type LeaveType struct {
	ID                    uint      `gorm:"primaryKey"`
	Name                  string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_leave_type_name"`
	Quota                 int       `gorm:"type:int;not null"`
	AvailableForEmployees bool      `gorm:"not null;default:false"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (LeaveType) TableName() string {
	return "leave_types"
}
