package model

import "fmt"

// CredentialsNotFoundError indicates no usable AWS credentials are configured
type CredentialsNotFoundError struct{}

func (e *CredentialsNotFoundError) Error() string {
	return "AWS credentials not found. Configure credentials using 'aws configure' " +
		"or set AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY environment variables"
}

// AuthenticationError indicates AWS rejected the configured credentials
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	if e.Message == "" {
		return "AWS authentication failed"
	}
	return fmt.Sprintf("AWS authentication failed: %s", e.Message)
}

// PermissionError indicates the caller lacks permission for one action.
// It does not imply broader failure; other APIs may still be accessible.
type PermissionError struct {
	Service string
	Action  string
	Details string
}

func (e *PermissionError) Error() string {
	msg := fmt.Sprintf("insufficient permissions for %s:%s", e.Service, e.Action)
	if e.Details != "" {
		msg += " - " + e.Details
	}
	return msg
}

// CostExplorerNotEnabledError indicates Cost Explorer is disabled for
// the account. Callers can continue with degraded functionality.
type CostExplorerNotEnabledError struct{}

func (e *CostExplorerNotEnabledError) Error() string {
	return "AWS Cost Explorer is not enabled for this account. " +
		"Enable it in the AWS Billing console"
}

// RateLimitExceededError indicates API throttling. RetryAfterSeconds is a
// hint; no retry is performed by this library.
type RateLimitExceededError struct {
	RetryAfterSeconds int
}

func (e *RateLimitExceededError) Error() string {
	return fmt.Sprintf("AWS API rate limit exceeded. Retry after %d seconds", e.RetryAfterSeconds)
}

// DataNotAvailableError indicates cost data is not yet available for the
// requested period, typically because the period is too recent
type DataNotAvailableError struct {
	Message string
}

func (e *DataNotAvailableError) Error() string {
	if e.Message == "" {
		return "cost data not yet available for this period"
	}
	return fmt.Sprintf("cost data not yet available: %s", e.Message)
}

// InvalidDateRangeError indicates a query failed pre-flight date
// validation and was never sent to the API
type InvalidDateRangeError struct {
	Message string
}

func (e *InvalidDateRangeError) Error() string {
	if e.Message == "" {
		return "invalid date range specified"
	}
	return e.Message
}

// ResourceNotFoundError indicates a requested AWS resource does not exist
type ResourceNotFoundError struct {
	ResourceType string
	ResourceID   string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// APIError is the catch-all for unrecognized upstream errors, carrying
// the provider's code and message for diagnostics
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("AWS API error: %s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("AWS API error: %s", e.Message)
}
