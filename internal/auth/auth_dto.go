package auth

type RegisterRequest struct {
	EmployeeID string `json:"employeeId" binding:"required"`
	Password   string `json:"password" binding:"required,min=6"`
	Role       string `json:"role" binding:"required,oneof=admin approver reviewer employee"`
	Name       string `json:"empName" binding:"required"`
	Email      string `json:"empEmail" binding:"required,email"`
	Phone      string `json:"empPhone"`
	ManagerID  string `json:"empManagerId"`
}

type LoginRequest struct {
	EmployeeID string `json:"employeeId" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type LeaveCreditResponse struct {
	LeaveType string `json:"leaveType"`
	Quota     int    `json:"quota"`
	Used      int    `json:"used"`
	Available int    `json:"available"`
}

type AuthResponse struct {
	EmployeeID   string                `json:"employeeId"`
	Role         string                `json:"role"`
	Name         string                `json:"empName"`
	Email        string                `json:"empEmail"`
	Phone        string                `json:"empPhone"`
	ManagerID    string                `json:"empManagerId"`
	LeaveCredits []LeaveCreditResponse `json:"leave_credits"`
}
