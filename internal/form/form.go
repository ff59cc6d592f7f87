package form

import "strings"

const (
	// DefaultContractName is the name attached to every submission.
	// The form does not ask the user for a contract name.
	DefaultContractName = "UploadedContract.sol"

	// ErrEmptyCode is shown inline when the submitted contract text is blank.
	ErrEmptyCode = "Please provide contract code"
)

// Submission is the event emitted by a successful form submit.
type Submission struct {
	Code string
	Name string
}

// Form holds the local state of the scan input form.
type Form struct {
	Code            string
	ValidationError string
}

// Submit validates the current code. On success it clears the validation error and
// returns the submission to hand over to the scan controller. On failure it sets the
// validation error and returns false; nothing is emitted.
func (f *Form) Submit() (Submission, bool) {
	if strings.TrimSpace(f.Code) == "" {
		f.ValidationError = ErrEmptyCode
		return Submission{}, false
	}

	f.ValidationError = ""
	return Submission{Code: f.Code, Name: DefaultContractName}, true
}
