// datauri.go - PNG data URI encoding.
package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
)

// PNGDataURIPrefix starts every URI produced by EncodeDataURI.
const PNGDataURIPrefix = "data:image/png;base64,"

// ErrMalformedDataURI is returned by DecodeDataURI for non-PNG or corrupt URIs.
var ErrMalformedDataURI = errors.New("malformed data URI")

// EncodePNG writes img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeDataURI encodes img as "data:image/png;base64,...".
func EncodeDataURI(img image.Image) (string, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return PNGDataURIPrefix + base64.StdEncoding.EncodeToString(data), nil
}

// DecodeDataURI returns the PNG bytes carried by a URI from EncodeDataURI.
func DecodeDataURI(uri string) ([]byte, error) {
	b64, ok := strings.CutPrefix(uri, PNGDataURIPrefix)
	if !ok {
		return nil, fmt.Errorf("%w: expected %q prefix", ErrMalformedDataURI, PNGDataURIPrefix)
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDataURI, err)
	}
	return data, nil
}
