package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	// Status values are a one-way machine: ACTION_PENDING is the only initial
	// state and approved/rejected are terminal.
	StatusPending  = "ACTION_PENDING"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type LeaveRequest struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestNumber string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_leave_request_number"`
	EmployeeID    string    `gorm:"type:varchar(50);not null;index:idx_leave_requests_employee"`
	// ManagerID is captured from the employee record at submission time and
	// never re-resolved, so a later change of manager does not retarget
	// pending requests.
	ManagerID    string    `gorm:"type:varchar(50);not null;index:idx_leave_requests_manager"`
	LeaveType    string    `gorm:"type:varchar(100);not null"`
	StartDate    time.Time `gorm:"type:date;not null"`
	EndDate      time.Time `gorm:"type:date;not null"`
	Status       string    `gorm:"type:varchar(20);not null;default:'ACTION_PENDING'"`
	Comments     string    `gorm:"type:text"`
	EmployeeName string    `gorm:"type:varchar(255)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

func (l *LeaveRequest) IsTerminal() bool {
	return l.Status == StatusApproved || l.Status == StatusRejected
}

// NumDays is the inclusive day span of the request.
func (l *LeaveRequest) NumDays() int {
	return int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
}
