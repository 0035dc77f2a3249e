package imageproc

import (
	"errors"
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// swapCodec installs a fake codec for one test and restores state afterwards.
func swapCodec(t *testing.T, init func() (*codec, error)) {
	t.Helper()
	orig := newCodec
	newCodec = init
	codecMu.Lock()
	sharedCodec = nil
	codecMu.Unlock()
	t.Cleanup(func() {
		newCodec = orig
		codecMu.Lock()
		sharedCodec = nil
		codecMu.Unlock()
	})
}

func fakeCodec(cfg image.Config, cfgErr error, img image.Image, imgErr error, decoded *bool) *codec {
	return &codec{
		decodeConfig: func(io.Reader) (image.Config, error) {
			return cfg, cfgErr
		},
		decode: func(io.Reader) (image.Image, error) {
			if decoded != nil {
				*decoded = true
			}
			return img, imgErr
		},
	}
}

func TestDecodeHEIC_PixelCap(t *testing.T) {
	decoded := false
	swapCodec(t, func() (*codec, error) {
		return fakeCodec(image.Config{Width: 10_000, Height: 10_000}, nil, nil, nil, &decoded), nil
	})

	_, err := DecodeHEIC([]byte("heic-bytes"))

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Contains(t, decErr.Reason, "too large")
	assert.False(t, decoded, "oversized image must never reach the decoder")
}

func TestDecodeHEIC_ZeroDimensions(t *testing.T) {
	swapCodec(t, func() (*codec, error) {
		return fakeCodec(image.Config{Width: 0, Height: 100}, nil, nil, nil, nil), nil
	})

	_, err := DecodeHEIC([]byte("heic-bytes"))

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Contains(t, decErr.Reason, "zero image dimensions")
}

func TestDecodeHEIC_EmptyContainer(t *testing.T) {
	swapCodec(t, func() (*codec, error) {
		return fakeCodec(image.Config{}, errors.New("no images"), nil, nil, nil), nil
	})

	_, err := DecodeHEIC([]byte("heic-bytes"))

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Contains(t, decErr.Reason, "no decodable image")
}

func TestDecodeHEIC_ConvertsToRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	swapCodec(t, func() (*codec, error) {
		return fakeCodec(image.Config{Width: 2, Height: 2}, nil, src, nil, nil), nil
	})

	rgba, err := DecodeHEIC([]byte("heic-bytes"))
	require.NoError(t, err)
	assert.Equal(t, 2, rgba.Bounds().Dx())
	assert.Equal(t, 2, rgba.Bounds().Dy())
	r, _, _, a := rgba.At(0, 0).RGBA()
	assert.NotZero(t, r)
	assert.NotZero(t, a)
}

func TestDecodeHEIC_CodecInitRetries(t *testing.T) {
	calls := 0
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	swapCodec(t, func() (*codec, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("codec load failed")
		}
		return fakeCodec(image.Config{Width: 1, Height: 1}, nil, src, nil, nil), nil
	})

	// First call fails to initialize; the memo must not be poisoned.
	_, err := DecodeHEIC([]byte("x"))
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Contains(t, decErr.Reason, "codec unavailable")

	// Second call retries initialization and succeeds.
	got, err := DecodeHEIC([]byte("x"))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, 2, calls)

	// Third call reuses the memoized codec.
	_, err = DecodeHEIC([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
