package leavetypeerrors

import (
	"net/http"

	"github.com/jkaz1007/lms-sys/internal/shared/apperror"
)

var (
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave type not found",
		http.StatusNotFound,
	)
	ErrLeaveTypeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Leave type with this name already exists",
		http.StatusConflict,
	)
	ErrInvalidQuota = apperror.New(
		apperror.CodeInvalidInput,
		"Quota must be a non-negative integer",
		http.StatusBadRequest,
	)
)
