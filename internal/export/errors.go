package export

import "fmt"

// ExportError is any failure producing an export artifact: malformed input
// transactions or a document assembly problem. Exports fail whole; no
// partial file is ever handed to the caller.
type ExportError struct {
	Reason string
	Err    error
}

func (e *ExportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("export failed: %s: %v", e.Reason, e.Err)
	}
	return "export failed: " + e.Reason
}

func (e *ExportError) Unwrap() error { return e.Err }
