package submission

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"

	"resume-report/internal/shared/config"
)

const (
	mimePDF  = "application/pdf"
	mimeDOC  = "application/msword"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

const (
	defaultMaxResumeBytes    = 5 << 20
	defaultMinJobDescription = 300
)

var (
	ErrInvalidFileName        = errors.New("invalid file name")
	ErrEmptyResume            = errors.New("resume file is empty")
	ErrResumeTooLarge         = errors.New("resume file is too large")
	ErrUnsupportedType        = errors.New("unsupported resume file type")
	ErrTypeMismatch           = errors.New("resume content does not match its extension")
	ErrJobDescriptionTooShort = errors.New("job description is too short")
)

// acceptedContent lists the sniffed types accepted for each extension. Word
// files are containers, so the generic container type is accepted when the
// sniffer cannot see far enough to name the document format.
var acceptedContent = map[string][]string{
	".pdf":  {mimePDF},
	".doc":  {mimeDOC, "application/x-ole-storage"},
	".docx": {mimeDOCX, "application/zip"},
}

// FieldError describes which submission field failed and why.
type FieldError struct {
	Field string
	Issue string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Details renders the error in the API's field/issue shape.
func (e *FieldError) Details() []map[string]string {
	return []map[string]string{{"field": e.Field, "issue": e.Issue}}
}

// Validator checks a resume and job description before they are sent for
// analysis.
type Validator struct {
	MaxResumeBytes         int64
	MinJobDescriptionChars int
}

func NewValidator(cfg config.SubmissionConfig) Validator {
	return Validator{
		MaxResumeBytes:         cfg.MaxResumeBytes,
		MinJobDescriptionChars: cfg.MinJobDescriptionChars,
	}
}

// ValidateResume checks size and type and returns the canonical MIME type to
// upload the file with. The type is sniffed from content and must agree with
// the file extension.
func (v Validator) ValidateResume(fileName string, content []byte) (string, error) {
	if len(content) == 0 {
		return "", &FieldError{Field: "file", Issue: "empty", Err: ErrEmptyResume}
	}
	maxBytes := v.MaxResumeBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxResumeBytes
	}
	if int64(len(content)) > maxBytes {
		return "", &FieldError{Field: "file", Issue: "too_large", Err: fmt.Errorf("%w: %d bytes, limit %d", ErrResumeTooLarge, len(content), maxBytes)}
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	accepted, ok := acceptedContent[ext]
	if !ok {
		return "", &FieldError{Field: "file", Issue: "unsupported_type", Err: fmt.Errorf("%w: extension %q", ErrUnsupportedType, ext)}
	}

	detected := mimetype.Detect(content)
	for _, want := range accepted {
		if detected.Is(want) {
			return accepted[0], nil
		}
	}
	for _, others := range acceptedContent {
		if detected.Is(others[0]) {
			return "", &FieldError{Field: "file", Issue: "type_mismatch", Err: fmt.Errorf("%w: %s file named %q", ErrTypeMismatch, detected.String(), fileName)}
		}
	}
	return "", &FieldError{Field: "file", Issue: "unsupported_type", Err: fmt.Errorf("%w: detected %s", ErrUnsupportedType, detected.String())}
}

// ValidateJobDescription trims jd and checks its length. An empty job
// description is valid and selects a resume-only analysis.
func (v Validator) ValidateJobDescription(jd string) (string, error) {
	jd = strings.TrimSpace(jd)
	if jd == "" {
		return "", nil
	}
	minChars := v.MinJobDescriptionChars
	if minChars <= 0 {
		minChars = defaultMinJobDescription
	}
	if n := utf8.RuneCountInString(jd); n < minChars {
		return "", &FieldError{Field: "jobDescription", Issue: "too_short", Err: fmt.Errorf("%w: %d characters, minimum %d", ErrJobDescriptionTooShort, n, minChars)}
	}
	return jd, nil
}
