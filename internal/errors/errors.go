package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all hard failure modes.
// Missing model data is never an error; only resource, configuration and
// storage problems are reported through these codes.
type ErrorCode string

const (
	// ModelNotFound indicates the model path does not exist
	ModelNotFound ErrorCode = "MODEL_NOT_FOUND"
	// ModelUnreadable indicates the model file could not be opened or parsed
	ModelUnreadable ErrorCode = "MODEL_UNREADABLE"
	// FormatUnsupported indicates no model reader is available for the file format
	FormatUnsupported ErrorCode = "FORMAT_UNSUPPORTED"
	// ConfigInvalid indicates the configuration failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// ProjectInvalid indicates the project file is missing required fields
	ProjectInvalid ErrorCode = "PROJECT_INVALID"
	// RunNotFound indicates a stored run does not exist
	RunNotFound ErrorCode = "RUN_NOT_FOUND"
	// StorageFailure indicates the run history database failed
	StorageFailure ErrorCode = "STORAGE_FAILURE"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
	// CheckInput suggests checking the given input
	CheckInput FixActionType = "check-input"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// CheckError represents an error with code, message, and suggestions
type CheckError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// NewCheckError creates a new CheckError. Nil fixes are filled from ErrorActions.
func NewCheckError(code ErrorCode, message string, cause error, suggestedFixes []FixAction) *CheckError {
	if suggestedFixes == nil {
		suggestedFixes = GetSuggestedFixes(code)
	}
	return &CheckError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: suggestedFixes,
	}
}

// Error implements the error interface
func (e *CheckError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *CheckError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *CheckError) WithDetails(details interface{}) *CheckError {
	e.Details = details
	return e
}

// Is matches another *CheckError by code, so errors.Is(err, &CheckError{Code: X}) works.
func (e *CheckError) Is(target error) bool {
	t, ok := target.(*CheckError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// CodeOf returns the code of the first CheckError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	for err != nil {
		if ce, ok := err.(*CheckError); ok {
			return ce.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	ModelNotFound: {
		{
			Type:        CheckInput,
			Description: "Check the model path; relative paths resolve against the working directory",
		},
	},
	ModelUnreadable: {
		{
			Type:        RunCommand,
			Command:     "vkfcheck summary ${model_path} -vv",
			Safe:        true,
			Description: "Inspect the model with debug logging to locate the parse error",
		},
	},
	FormatUnsupported: {
		{
			Type:        CheckInput,
			Description: "Export the model as .ifc, .ifczip or .ifc.gz, or provide a YAML model document",
		},
	},
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "vkfcheck config show",
			Safe:        true,
			Description: "Review the effective configuration",
		},
	},
	ProjectInvalid: {
		{
			Type:        RunCommand,
			Command:     "vkfcheck project init --number <number>",
			Safe:        true,
			Description: "Create a project file with the required project number",
		},
	},
	RunNotFound: {
		{
			Type:        RunCommand,
			Command:     "vkfcheck runs list",
			Safe:        true,
			Description: "List stored runs",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
