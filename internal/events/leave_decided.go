package events

import "time"

const LeaveDecidedTopic = "leave.request.decision.v1"

type LeaveDecidedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	LeaveID    string    `json:"leave_id"`
	EmployeeID string    `json:"employee_id"`
	ManagerID  string    `json:"manager_id"`
	LeaveType  string    `json:"leave_type"`
	Decision   string    `json:"decision"`
	NumDays    int       `json:"num_days"`
	OccurredAt time.Time `json:"occurred_at"`
}
