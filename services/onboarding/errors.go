package onboarding

import "errors"

var (
	ErrNoSession            = errors.New("onboarding session not found")
	ErrRoleLocked           = errors.New("role can only be chosen on the role selection step")
	ErrWrongFlow            = errors.New("action does not belong to this onboarding flow")
	ErrAtTerminalStep       = errors.New("already on the review step; submit instead")
	ErrNotAtTerminalStep    = errors.New("submission is only available on the review step")
	ErrSubmissionInProgress = errors.New("a submission is already in progress")
	ErrConcurrentUpdate     = errors.New("onboarding session was changed by another request; try again")
	ErrFileTooLarge         = errors.New("File size must be less than 3MB.")
	ErrUnknownPlatform      = errors.New("unknown platform")
	ErrUnknownField         = errors.New("unknown field")
	ErrStepOutOfRange       = errors.New("step index out of range")
	ErrEmptyChannelInput    = errors.New("channel URL or ID is required")
	ErrLookupOnly           = errors.New("YouTube details are filled by channel lookup")
)

// ValidationError is a per-step validator failure. Message is shown to the user as is.
type ValidationError struct {
	Step    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// LookupError is a failed channel lookup. Existing channel details are left untouched.
type LookupError struct {
	Status  int
	Message string
}

func (e *LookupError) Error() string {
	return e.Message
}

// UploadError aborts a submission at a file upload stage.
type UploadError struct {
	Stage string
	Err   error
}

func (e *UploadError) Error() string {
	return e.Err.Error()
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// PersistenceError aborts a submission at a row write stage.
type PersistenceError struct {
	Stage string
	Err   error
}

func (e *PersistenceError) Error() string {
	return e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsSubmissionFailure reports whether err came out of a pipeline stage.
func IsSubmissionFailure(err error) bool {
	var up *UploadError
	var pe *PersistenceError
	return errors.As(err, &up) || errors.As(err, &pe)
}
