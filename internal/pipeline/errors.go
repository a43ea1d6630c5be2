package pipeline

import "fmt"

// Stage names for error classification and batch reporting.
const (
	StageFetch   = "fetch"
	StageExtract = "extract"
	StageStore   = "store"
	StageWrite   = "write"
)

// FetchError means the content service could not return readable page
// content for the URL.
type FetchError struct {
	URL   string
	Cause error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.URL, e.Cause) }
func (e *FetchError) Unwrap() error { return e.Cause }
func (e *FetchError) Stage() string { return StageFetch }

// ExtractionError means the model responded but its output could not be
// turned into a record matching the schema.
type ExtractionError struct {
	URL   string
	Cause error
}

func (e *ExtractionError) Error() string { return fmt.Sprintf("extract %s: %v", e.URL, e.Cause) }
func (e *ExtractionError) Unwrap() error { return e.Cause }
func (e *ExtractionError) Stage() string { return StageExtract }

// ServiceError means the extraction service itself failed before
// producing output, e.g. a transport or API error.
type ServiceError struct {
	URL   string
	Cause error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("extraction service %s: %v", e.URL, e.Cause)
}

func (e *ServiceError) Unwrap() error { return e.Cause }
func (e *ServiceError) Stage() string { return StageExtract }

// StorageError means the extracted record could not be persisted.
type StorageError struct {
	URL   string
	Cause error
}

func (e *StorageError) Error() string { return fmt.Sprintf("store %s: %v", e.URL, e.Cause) }
func (e *StorageError) Unwrap() error { return e.Cause }
func (e *StorageError) Stage() string { return StageStore }

// IOError means a local file operation failed, e.g. the output file
// could not be written or the input CSV could not be read.
type IOError struct {
	Path  string
	Cause error
}

func (e *IOError) Error() string { return fmt.Sprintf("io %s: %v", e.Path, e.Cause) }
func (e *IOError) Unwrap() error { return e.Cause }
func (e *IOError) Stage() string { return StageWrite }

// stager is implemented by every pipeline error type.
type stager interface {
	Stage() string
}

// ErrorStage reports which pipeline stage err came from, or "" when err
// is not a pipeline error.
func ErrorStage(err error) string {
	if s, ok := err.(stager); ok {
		return s.Stage()
	}
	return ""
}
