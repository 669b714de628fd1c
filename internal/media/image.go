package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	// Image format decoders
	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP format support
)

const (
	// FrameWidth and FrameHeight are the dimensions of sampled video frames
	// sent to the insight gateway.
	FrameWidth  = 640
	FrameHeight = 360

	// FrameQuality is the JPEG quality of sampled frames.
	FrameQuality = 70
)

// ImageDimensions holds image width and height
type ImageDimensions struct {
	Width  int
	Height int
}

// DecodeImage decodes image bytes in any registered format (jpeg, png, gif, webp).
func DecodeImage(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// GetImageDimensions returns image dimensions without fully decoding the image
func GetImageDimensions(data []byte) (*ImageDimensions, error) {
	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &ImageDimensions{Width: config.Width, Height: config.Height}, nil
}

// EncodeFrame scales img to the frame size, cropping to fill, and encodes it as JPEG.
func EncodeFrame(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("nil frame")
	}
	frame := imaging.Fill(img, FrameWidth, FrameHeight, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: FrameQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	return buf.Bytes(), nil
}
