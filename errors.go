package vinyl

import (
	"errors"
	"fmt"
)

// Error kinds. Callers match them with errors.Is; the concrete errors
// returned carry the file, identity or record they concern.
var (
	// ErrSignatureNotFound means a required byte pattern is absent and the
	// buffer is not a parsable shape asset.
	ErrSignatureNotFound = errors.New("vinyl: signature not found")

	// ErrInvalidFilename means an asset name is not <letters>_<number>[.ext].
	ErrInvalidFilename = errors.New("vinyl: invalid asset filename")

	// ErrTruncated means a block header field lies outside the buffer.
	ErrTruncated = errors.New("vinyl: asset data truncated")

	// ErrMissingAsset means the cache has no backing record for an identity.
	ErrMissingAsset = errors.New("vinyl: missing asset")

	// ErrSuspiciousValue marks a value outside its expected range. It is
	// never returned as an error; it is wrapped by Warning.
	ErrSuspiciousValue = errors.New("vinyl: suspicious value")

	// ErrInterchange means an import document could not be decoded.
	ErrInterchange = errors.New("vinyl: interchange deserialization failure")

	// ErrInvalidRenderData means geometry failed validation.
	ErrInvalidRenderData = errors.New("vinyl: invalid render data")
)

// SignatureError reports which signature was not found.
type SignatureError struct {
	Signature string // "faces", "vertices" or "uv"
	File      string
}

func (e *SignatureError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("vinyl: %s signature not found", e.Signature)
	}
	return fmt.Sprintf("vinyl: %s signature not found in %s", e.Signature, e.File)
}

// Unwrap returns ErrSignatureNotFound.
func (e *SignatureError) Unwrap() error { return ErrSignatureNotFound }

// Warning is a non-fatal parser finding. Processing continued with the raw
// value; downstream validation decides how severe it is.
type Warning struct {
	Field  string // what was out of range, e.g. "vertex count"
	Index  int    // element index, or -1 for whole-asset values
	Detail string
}

func (w Warning) Error() string {
	if w.Index >= 0 {
		return fmt.Sprintf("vinyl: unusual %s @ %d: %s", w.Field, w.Index, w.Detail)
	}
	return fmt.Sprintf("vinyl: unusual %s: %s", w.Field, w.Detail)
}

// Unwrap returns ErrSuspiciousValue.
func (w Warning) Unwrap() error { return ErrSuspiciousValue }

// RecordError reports a rejected record of an import document.
type RecordError struct {
	Record int // zero-based position in the document
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("vinyl: shape record %d: %v", e.Record, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
