package leave

type SubmitLeaveRequest struct {
	LeaveType string `json:"leaveType" binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	Comments  string `json:"comments"`
}

type DecideLeaveRequest struct {
	// Unknown values are rejected by the service, not the binding, so they
	// surface as InvalidRequest rather than a generic validation failure.
	Decision string `json:"approval_status" binding:"required"`
}

type LeaveResponse struct {
	ID            string `json:"id"`
	RequestNumber string `json:"requestNumber"`
	EmployeeID    string `json:"employeeId"`
	ManagerID     string `json:"managerId"`
	LeaveType     string `json:"leaveType"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	NumDays       int    `json:"numDays"`
	Status        string `json:"status"`
	Comments      string `json:"comments"`
	EmployeeName  string `json:"employeeName"`
}
