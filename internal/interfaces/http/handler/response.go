package handler

import "github.com/erp/payroll/internal/interfaces/http/dto"

// APIResponse is the envelope documented for every successful endpoint
// @Description Response envelope with a typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse is the envelope documented for failures. Approval no-ops
// also use it, with HTTP 200 and code ERR_APPROVAL_NOOP.
// @Description Error envelope
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}
