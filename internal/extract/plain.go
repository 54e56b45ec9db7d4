package extract

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

func plainText(filename string, data []byte) (string, error) {
	// Strip a UTF-8 BOM if present.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: not valid UTF-8 text", filename)
	}
	return string(data), nil
}
