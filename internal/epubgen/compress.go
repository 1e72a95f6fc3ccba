package epubgen

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"path"
	"strings"
)

var errUnsupportedImage = errors.New("image format not recompressed")

// compressImage re-encodes jpeg and png images. Other formats are returned
// with errUnsupportedImage so the caller keeps the original bytes.
func compressImage(data []byte, src string) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(path.Ext(src))
	var buf bytes.Buffer
	switch {
	case format == "jpeg" || ext == ".jpg" || ext == ".jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
	case format == "png" || ext == ".png":
		err = (&png.Encoder{CompressionLevel: png.BestCompression}).Encode(&buf, img)
	default:
		return nil, errUnsupportedImage
	}
	if err != nil {
		return nil, err
	}
	if buf.Len() >= len(data) {
		return data, nil
	}
	return buf.Bytes(), nil
}
