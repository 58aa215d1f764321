package employee

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey"`
	EmployeeID   string        `gorm:"type:varchar(50);not null;uniqueIndex:uq_employee_employee_id"`
	PasswordHash string        `gorm:"type:varchar(255);not null"`
	Role         string        `gorm:"type:varchar(20);not null;default:'employee'"`
	Name         string        `gorm:"type:varchar(255);not null"`
	Email        string        `gorm:"type:varchar(255)"`
	Phone        string        `gorm:"type:varchar(50)"`
	ManagerID    string        `gorm:"type:varchar(50);index"`
	Credits      []LeaveCredit `gorm:"foreignKey:EmployeeID;references:EmployeeID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Employee) TableName() string {
	return "employees"
}

// LeaveCredit is one employee's balance for one leave type. It has no
// lifecycle of its own: rows are created with the employee and only mutated
// through Settle. used + available == quota at all times.
type LeaveCredit struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID string    `gorm:"type:varchar(50);not null;index:idx_leave_credits_employee"`
	LeaveType  string    `gorm:"type:varchar(100);not null"`
	Quota      int       `gorm:"type:int;not null"`
	Used       int       `gorm:"type:int;not null;default:0"`
	Available  int       `gorm:"type:int;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (LeaveCredit) TableName() string {
	return "leave_credits"
}

// Credit returns the credit record for the given leave type, or nil when the
// employee was never granted that type.
func (e *Employee) Credit(leaveType string) *LeaveCredit {
	for i := range e.Credits {
		if e.Credits[i].LeaveType == leaveType {
			return &e.Credits[i]
		}
	}
	return nil
}

// CanReserve is the non-mutating sufficiency check run at submission time.
func (c *LeaveCredit) CanReserve(numDays int) bool {
	return c.Available >= numDays
}
