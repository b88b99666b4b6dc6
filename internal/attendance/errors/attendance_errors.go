package attendanceerrors

import (
	"net/http"

	"hr-core/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidBreakType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid break type, expected break1, break2 or lunch",
		http.StatusBadRequest,
	)
	ErrAlreadyPunchedIn = apperror.New(
		apperror.CodeConflict,
		"already punched in for this day",
		http.StatusConflict,
	)
	ErrNotPunchedIn = apperror.New(
		apperror.CodeInvalidState,
		"no active attendance record for this day",
		http.StatusBadRequest,
	)
	ErrBreakAlreadyActive = apperror.New(
		apperror.CodeInvalidState,
		"another break is still open",
		http.StatusBadRequest,
	)
	ErrBreakAlreadyUsed = apperror.New(
		apperror.CodeInvalidState,
		"this break type was already taken today",
		http.StatusBadRequest,
	)
	ErrBreakNotOpen = apperror.New(
		apperror.CodeInvalidState,
		"no open break of this type",
		http.StatusBadRequest,
	)
	ErrAttendanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"attendance record not found",
		http.StatusNotFound,
	)
)
