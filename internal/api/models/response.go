package models

import (
	"plancharts/internal/model"
	"plancharts/internal/protocol"
)

// ChartResponse is the envelope returned by POST /api/v1/charts/:domain.
type ChartResponse struct {
	protocol.Response
	// FallbackTable is the default dataset's table, present on error responses.
	FallbackTable *model.Table `json:"fallbackTable,omitempty"`
}

// DomainInfo describes one chart domain
type DomainInfo struct {
	Name    string   `json:"name"`
	Actions []string `json:"actions"`
}

// DomainsResponse lists the available chart domains
type DomainsResponse struct {
	Domains []DomainInfo `json:"domains"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewError builds an ErrorResponse.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}
