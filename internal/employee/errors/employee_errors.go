package employeeerrors

import (
	"net/http"

	"github.com/jkaz1007/lms-sys/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"User with this employeeId already exists",
		http.StatusConflict,
	)
	ErrNoCreditForLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid leave request or insufficient leave balance",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInvalidInput,
		"Insufficient leave balance",
		http.StatusBadRequest,
	)
)
