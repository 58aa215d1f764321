package leavetype

type CreateLeaveTypeRequest struct {
	Name                  string `json:"name" binding:"required"`
	Quota                 *int   `json:"quota" binding:"required,gte=0"`
	AvailableForEmployees bool   `json:"available_for_employees"`
}

type UpdateLeaveTypeRequest struct {
	Quota                 *int  `json:"quota" binding:"required,gte=0"`
	AvailableForEmployees *bool `json:"available_for_employees" binding:"required"`
}

type LeaveTypeResponse struct {
	Name                  string `json:"name"`
	Quota                 int    `json:"quota"`
	AvailableForEmployees bool   `json:"available_for_employees"`
}
