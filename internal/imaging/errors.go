package imaging

import (
	"github.com/jmgilman/go/errors"
)

// Error codes raised at the codec boundary. Parameter validation uses
// errors.CodeInvalidInput.
const (
	// CodeDecodeFailed marks input bytes or paths that are not a readable image.
	CodeDecodeFailed errors.ErrorCode = "DECODE_FAILED"

	// CodeEncodeFailed marks a failure serializing a buffer to an output format.
	CodeEncodeFailed errors.ErrorCode = "ENCODE_FAILED"
)

func invalidParam(format string, args ...interface{}) error {
	return errors.Newf(errors.CodeInvalidInput, format, args...)
}
