package media

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func createTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestEncodeFrameFitsFrameSize(t *testing.T) {
	img, format, err := DecodeImage(createTestPNG(t, 1280, 960))
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if format != "png" {
		t.Errorf("format = %q, want png", format)
	}

	frame, err := EncodeFrame(img)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}

	dims, err := GetImageDimensions(frame)
	if err != nil {
		t.Fatalf("GetImageDimensions: %v", err)
	}
	if dims.Width != FrameWidth || dims.Height != FrameHeight {
		t.Errorf("frame = %dx%d, want %dx%d", dims.Width, dims.Height, FrameWidth, FrameHeight)
	}

	if _, format, err := DecodeImage(frame); err != nil || format != "jpeg" {
		t.Errorf("frame should decode as jpeg, got %q, %v", format, err)
	}
}

func TestEncodeFrameNil(t *testing.T) {
	if _, err := EncodeFrame(nil); err == nil {
		t.Error("EncodeFrame(nil) should fail")
	}
}

func TestDecodeImageGarbage(t *testing.T) {
	if _, _, err := DecodeImage([]byte("not an image")); err == nil {
		t.Error("DecodeImage should fail on garbage")
	}
}
