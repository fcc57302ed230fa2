package helper

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// MaxUploadSize guards the multipart handlers before any decoding happens.
const MaxUploadSize = int64(5 * 1024 * 1024)

var (
	ErrEmptyFile        = errors.New("empty file")
	ErrUnsupportedImage = errors.New("unsupported image format (use jpg, png or webp)")
	ErrTooLarge         = fmt.Errorf("file too large (max %d bytes)", MaxUploadSize)
)

/* =======================================================================
   WebP options
======================================================================= */

type WebPOptions struct {
	MaxW     int     // resize keep-aspect when wider
	MaxH     int     // resize keep-aspect when taller
	Quality  float32 // lossy quality, 0..100
	Lossless bool
}

// LogoOptions fits college logos into 512x512.
func LogoOptions() WebPOptions {
	return WebPOptions{MaxW: 512, MaxH: 512, Quality: 82}
}

/* =======================================================================
   Decode (jpeg/png/webp) with MIME sniffing
======================================================================= */

func decodeImage(all []byte, filename string) (image.Image, error) {
	if len(all) == 0 {
		return nil, ErrEmptyFile
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	switch {
	case strings.Contains(ct, "jpeg"):
		return jpeg.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "png"):
		return png.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "webp"):
		return webp.Decode(bytes.NewReader(all))
	}

	// sniffing misses some webp headers; fall back to the extension
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return jpeg.Decode(bytes.NewReader(all))
	case ".png":
		return png.Decode(bytes.NewReader(all))
	case ".webp":
		return webp.Decode(bytes.NewReader(all))
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, ct)
}

func downscaleIfNeeded(src image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 && maxH <= 0 {
		return src
	}
	b := src.Bounds()
	if (maxW > 0 && b.Dx() > maxW) || (maxH > 0 && b.Dy() > maxH) {
		if maxW <= 0 {
			maxW = b.Dx()
		}
		if maxH <= 0 {
			maxH = b.Dy()
		}
		return imaging.Fit(src, maxW, maxH, imaging.CatmullRom)
	}
	return src
}

func encodeToWebP(img image.Image, opt WebPOptions) ([]byte, error) {
	q := opt.Quality
	if q <= 0 || q > 100 {
		q = 80
	}
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: opt.Lossless, Quality: q}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ConvertToWebP: read, decode, downscale, encode.
func ConvertToWebP(r io.Reader, filename string, opts WebPOptions) ([]byte, error) {
	all, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(all)) > MaxUploadSize {
		return nil, ErrTooLarge
	}
	img, err := decodeImage(all, filename)
	if err != nil {
		return nil, err
	}
	return encodeToWebP(downscaleIfNeeded(img, opts.MaxW, opts.MaxH), opts)
}
