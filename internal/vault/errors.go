package vault

import (
	"github.com/jmgilman/go/errors"

	"github.com/ironsheep/image-vault-mcp/internal/imaging"
)

func notFound(h Handle) error {
	return errors.WithContext(
		errors.Newf(errors.CodeNotFound, "image handle %d not found", uint32(h)),
		"handle", uint32(h))
}

// annotate attaches the failing operation and handle to err.
func annotate(err error, op string, h Handle) error {
	if err == nil {
		return nil
	}
	return errors.WithContextMap(err, map[string]interface{}{
		"operation": op,
		"handle":    uint32(h),
	})
}

// IsNotFound reports whether err means the handle was never issued, was
// disposed, or was evicted.
func IsNotFound(err error) bool {
	return err != nil && errors.GetCode(err) == errors.CodeNotFound
}

// IsInvalidParameter reports whether err came from degenerate arguments such
// as a zero-sized resize or an empty crop.
func IsInvalidParameter(err error) bool {
	return err != nil && errors.GetCode(err) == errors.CodeInvalidInput
}

// IsDecodeError reports whether err came from unreadable input bytes or paths.
func IsDecodeError(err error) bool {
	return err != nil && errors.GetCode(err) == imaging.CodeDecodeFailed
}

// IsEncodeError reports whether err came from serializing an output format.
func IsEncodeError(err error) bool {
	return err != nil && errors.GetCode(err) == imaging.CodeEncodeFailed
}

// IsInternal reports whether err signals an algorithm fault rather than bad
// input. These indicate a bug and are never expected in normal operation.
func IsInternal(err error) bool {
	return err != nil && errors.GetCode(err) == errors.CodeInternal
}
