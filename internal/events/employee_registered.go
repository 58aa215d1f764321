package events

import "time"

const EmployeeRegisteredTopic = "leave.employee.lifecycle.v1"

type EmployeeRegisteredEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	EmployeeID  string    `json:"employee_id"`
	Role        string    `json:"role"`
	CreditCount int       `json:"credit_count"`
	OccurredAt  time.Time `json:"occurred_at"`
}
