package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"time"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/desertthunder/wavedl/internal/models"
)

const maxCoverDownload = 20 * 1024 * 1024

var coverClient = &http.Client{Timeout: 30 * time.Second}

// ResizeCover scales cover art down to the profile's pixel bound and
// re-encodes it as JPEG under the profile's byte budget. Encoding quality
// steps down until the result fits or quality bottoms out.
func ResizeCover(data []byte, profile models.PortableProfile) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode cover image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Scale the longest edge to the pixel cap, preserving aspect ratio.
	if width > profile.MaxCoverPx || height > profile.MaxCoverPx {
		ratio := float64(width) / float64(height)
		if width >= height {
			width = profile.MaxCoverPx
			height = int(float64(profile.MaxCoverPx) / ratio)
		} else {
			height = profile.MaxCoverPx
			width = int(float64(profile.MaxCoverPx) * ratio)
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	for quality := 85; quality >= 30; quality -= 10 {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode cover image: %w", err)
		}

		if profile.MaxCoverBytes <= 0 || buf.Len() <= profile.MaxCoverBytes {
			return buf.Bytes(), nil
		}
	}

	return nil, fmt.Errorf("cover art exceeds %d bytes at minimum quality", profile.MaxCoverBytes)
}

// FetchCover downloads cover art from url and resizes it for the given
// profile.
func FetchCover(ctx context.Context, url string, profile models.PortableProfile) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build cover request: %w", err)
	}

	resp, err := coverClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cover: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cover fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverDownload))
	if err != nil {
		return nil, fmt.Errorf("failed to read cover body: %w", err)
	}

	return ResizeCover(data, profile)
}
