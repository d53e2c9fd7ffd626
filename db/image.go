package db

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// EncodeImage renders the database bytes as a JSON array of numbers, the
// format the browser build keeps in local storage.
func EncodeImage(image []byte) string {
	var b strings.Builder
	b.Grow(len(image)*4 + 2)
	b.WriteByte('[')
	for i, v := range image {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(v)))
	}
	b.WriteByte(']')
	return b.String()
}

// DecodeImage parses an image written by EncodeImage
func DecodeImage(encoded string) ([]byte, error) {
	var values []int
	if err := json.Unmarshal([]byte(encoded), &values); err != nil {
		return nil, errors.Wrap(err, "image is not a JSON byte array")
	}
	if len(values) == 0 {
		return nil, errors.New("image is empty")
	}

	image := make([]byte, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return nil, errors.Errorf("image byte %d out of range: %d", i, v)
		}
		image[i] = byte(v)
	}
	return image, nil
}
