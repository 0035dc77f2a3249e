package imageproc

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register webp with image.Decode
)

// JPEGQuality is the fixed quality of every normalized image.
const JPEGQuality = 90

// NormalizationError marks a failure while producing canonical JPEG bytes.
// Callers decide whether to swallow it; the upload completion callback logs and
// keeps the original blob, a tagging caller surfaces it.
type NormalizationError struct {
	Reason string
	Err    error
}

func (e *NormalizationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("normalize: %s: %v", e.Reason, e.Err)
	}
	return "normalize: " + e.Reason
}

func (e *NormalizationError) Unwrap() error { return e.Err }

// Normalize re-encodes source bytes into canonical JPEG at JPEGQuality. The
// output is always a fresh encode of a full decode, never a passthrough of the
// input, so a stored blob is guaranteed decodable.
//
// HEIC input takes the software decode path and its RGBA pixels are encoded
// directly; orientation is already applied during that decode. Every other
// accepted format is decoded with EXIF orientation baked in before encoding.
func Normalize(data []byte, isHEIC bool) ([]byte, error) {
	if len(data) == 0 {
		return nil, &NormalizationError{Reason: "empty input"}
	}

	var img image.Image
	if isHEIC {
		rgba, err := DecodeHEIC(data)
		if err != nil {
			return nil, &NormalizationError{Reason: "heic decode", Err: err}
		}
		img = rgba
	} else {
		decoded, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
		if err != nil {
			return nil, &NormalizationError{Reason: "decode", Err: err}
		}
		img = decoded
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, &NormalizationError{Reason: "jpeg encode", Err: err}
	}
	if buf.Len() == 0 {
		return nil, &NormalizationError{Reason: "encoder produced no bytes"}
	}
	return buf.Bytes(), nil
}
