package imageproc

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"io"
	"sync"

	"github.com/gen2brain/heic"
)

// MaxDecodePixels bounds width*height before any pixel buffer is allocated.
// Corrupt or adversarial containers can declare absurd dimensions; the check
// runs against the container header, not the decoded image.
const MaxDecodePixels = 80_000_000

// DecodeError marks a failure while decoding a HEIC/HEIF container.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("heic decode: %s: %v", e.Reason, e.Err)
	}
	return "heic decode: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// codec is the handle to the software HEIC implementation. Only the first image
// of a multi-image container is decoded; that is a documented limitation.
type codec struct {
	decodeConfig func(io.Reader) (image.Config, error)
	decode       func(io.Reader) (image.Image, error)
}

// newCodec is a var so tests can substitute a fake implementation.
var newCodec = func() (*codec, error) {
	return &codec{
		decodeConfig: heic.DecodeConfig,
		decode:       heic.Decode,
	}, nil
}

var (
	codecMu     sync.Mutex
	sharedCodec *codec
)

// getCodec memoizes the codec handle process-wide. A failed initialization
// leaves the memo empty so the next call retries instead of being permanently
// stuck; non-HEIC uploads are unaffected either way.
func getCodec() (*codec, error) {
	codecMu.Lock()
	defer codecMu.Unlock()
	if sharedCodec != nil {
		return sharedCodec, nil
	}
	c, err := newCodec()
	if err != nil {
		return nil, err
	}
	sharedCodec = c
	return c, nil
}

// DecodeHEIC decodes a HEIC/HEIF byte buffer into interleaved RGBA pixels.
// It fails with *DecodeError when the container holds no image, declares zero
// dimensions, or exceeds MaxDecodePixels.
func DecodeHEIC(data []byte) (*image.RGBA, error) {
	c, err := getCodec()
	if err != nil {
		return nil, &DecodeError{Reason: "codec unavailable", Err: err}
	}

	cfg, err := c.decodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Reason: "no decodable image in container", Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, &DecodeError{Reason: "zero image dimensions"}
	}
	if cfg.Width*cfg.Height > MaxDecodePixels {
		return nil, &DecodeError{
			Reason: fmt.Sprintf("image too large: %dx%d exceeds %d pixels", cfg.Width, cfg.Height, MaxDecodePixels),
		}
	}

	img, err := c.decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Reason: "decode failed", Err: err}
	}

	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}
