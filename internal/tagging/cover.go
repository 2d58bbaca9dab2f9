package tagging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	coverStartQuality = 88
	coverMinQuality   = 60
	coverQualityStep  = 6
	maxCoverDownload  = 20 << 20
	coverUserAgent    = "Mozilla/5.0"
)

// FetchCover downloads the image at url.
func FetchCover(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, errors.New("cover url empty")
	}
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", coverUserAgent)
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cover request returned %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverDownload))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("cover response empty")
	}
	return data, nil
}

// NormalizeCover decodes data, crops the centre square, scales it to size and
// encodes a JPEG. Quality drops from 88 in steps of 6 until the result fits in
// maxBytes or the floor of 60 is reached; the floor result is returned even if
// it is still too large.
func NormalizeCover(data []byte, size, maxBytes int) ([]byte, error) {
	out, _, err := normalizeCover(data, size, maxBytes)
	return out, err
}

func normalizeCover(data []byte, size, maxBytes int) ([]byte, int, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("decode cover: %w", err)
	}
	bounds := src.Bounds()
	side := min(bounds.Dx(), bounds.Dy())
	if side <= 0 {
		return nil, 0, errors.New("cover has no pixels")
	}
	if size <= 0 {
		size = side
	}
	crop := image.Rect(0, 0, side, side).Add(image.Pt(
		bounds.Min.X+(bounds.Dx()-side)/2,
		bounds.Min.Y+(bounds.Dy()-side)/2,
	))

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)

	quality := coverStartQuality
	out, err := encodeJPEG(dst, quality)
	if err != nil {
		return nil, 0, err
	}
	for maxBytes > 0 && len(out) > maxBytes && quality > coverMinQuality {
		quality = max(quality-coverQualityStep, coverMinQuality)
		if out, err = encodeJPEG(dst, quality); err != nil {
			return nil, 0, err
		}
	}
	return out, quality, nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode cover: %w", err)
	}
	return buf.Bytes(), nil
}
