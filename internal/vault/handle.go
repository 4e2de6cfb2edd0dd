package vault

import (
	"strconv"

	"github.com/ironsheep/image-vault-mcp/internal/pixel"
)

// Handle is an opaque reference to one cached image.
//
// Handles come from a per-vault counter that starts at 1 and only grows, so
// a disposed or evicted handle is never reissued. Zero is never a valid handle.
type Handle uint32

// String formats the handle as its decimal id.
func (h Handle) String() string {
	return strconv.FormatUint(uint64(h), 10)
}

// Dimensions describes the current size and native encoding of an entry.
type Dimensions struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Encoding string `json:"encoding"`
}

func dimensionsOf(buf *pixel.Buffer) Dimensions {
	return Dimensions{
		Width:    buf.Width,
		Height:   buf.Height,
		Encoding: buf.Encoding.String(),
	}
}
