package checks

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`          // What happened (user-friendly)
	Action  string `json:"action,omitempty"` // What to do about it
	Code    string `json:"code"`             // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. Patterns are matched using strings.Contains and the first
// match wins, so more specific patterns come before general ones.
//
// Codes are grouped by category:
//
//	DATA001-DATA099  source data loading
//	VAL001-VAL099    request validation
//	TBL001-TBL099    table lookup
//	CHK001-CHK099    check execution
//	SES001-SES099    session and reload management
//	RATE001          request throttling
//	ERR000           fallback when nothing matches
//
// When a user reports a code, look up its patterns here to find what
// triggered it; for ERR000 check the server logs for the original error.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Source Data Errors (DATA001-DATA004)
	// These errors occur while loading the case study source files.
	// =========================================================================
	{
		pattern: "source file missing",
		msg: UserMessage{
			Message: "A required source file is missing",
			Action:  "Check that the data directory contains all five case study tables",
			Code:    "DATA001",
		},
	},
	{
		pattern: "header not found",
		msg: UserMessage{
			Message: "Could not locate the header row in a source file",
			Action:  "Ensure the expected columns appear near the top of the file",
			Code:    "DATA003",
		},
	},
	{
		pattern: "source file malformed",
		msg: UserMessage{
			Message: "A source file could not be parsed",
			Action:  "Re-export the table as CSV and reload",
			Code:    "DATA002",
		},
	},
	{
		pattern: "no tables registered",
		msg: UserMessage{
			Message: "No table definitions are registered",
			Action:  "Contact support; this server build is incomplete",
			Code:    "DATA004",
		},
	},

	// =========================================================================
	// Validation Errors (VAL001-VAL003)
	// These errors occur when request parameters fail validation.
	// =========================================================================
	{
		pattern: "invalid fiscal year",
		msg: UserMessage{
			Message: "The fiscal year is not valid",
			Action:  "Use a four-digit year, e.g. 2017",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid page",
		msg: UserMessage{
			Message: "The page parameters are not valid",
			Action:  "Use positive integers for page and pageSize",
			Code:    "VAL002",
		},
	},
	{
		pattern: "invalid sort",
		msg: UserMessage{
			Message: "The sort parameter is not valid",
			Action:  "Sort by a visible column, optionally prefixed with - for descending",
			Code:    "VAL003",
		},
	},

	// =========================================================================
	// Table Errors (TBL001)
	// These errors occur when resolving table keys.
	// =========================================================================
	{
		pattern: "table not found",
		msg: UserMessage{
			Message: "Table not found",
			Action:  "Verify the table key is one of the five case study tables",
			Code:    "TBL001",
		},
	},
	{
		pattern: "unknown table",
		msg: UserMessage{
			Message: "Table not found",
			Action:  "Verify the table key is one of the five case study tables",
			Code:    "TBL001",
		},
	},

	// =========================================================================
	// Check Errors (CHK001-CHK002)
	// These errors occur when running audit checks.
	// =========================================================================
	{
		pattern: "unknown visualization variant",
		msg: UserMessage{
			Message: "Unknown sales visualization variant",
			Action:  "Use one of: totals, territory, goals",
			Code:    "CHK001",
		},
	},
	{
		pattern: "unknown check",
		msg: UserMessage{
			Message: "Check not found",
			Action:  "Use one of: reconciliation, three-way-matching, credit-limit, receivables-aging, benford",
			Code:    "CHK002",
		},
	},

	// =========================================================================
	// Session Errors (SES001-SES004)
	// These errors occur during session and reload management.
	// =========================================================================
	{
		pattern: "reload already in progress",
		msg: UserMessage{
			Message: "A reload is already in progress",
			Action:  "Wait for the running reload to finish and try again",
			Code:    "SES001",
		},
	},
	{
		pattern: "dataset not loaded",
		msg: UserMessage{
			Message: "No dataset is loaded",
			Action:  "Load the source data before requesting results",
			Code:    "SES002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "SES003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "SES004",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// These errors occur when request limits are exceeded.
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// Support staff should check server logs for the original technical
// error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be
// shown to users. Returns false for the generic ERR000 fallback, where
// the raw error belongs in the logs instead.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while Error() yields the
// clean display message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps a technical error into a UserError.
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
