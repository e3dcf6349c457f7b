package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"code.sajari.com/docconv/v2"
)

// ExtractDocx returns the raw text of a .docx file. Formatting is discarded;
// unreadable archives are reported as ErrEmptyContent.
func ExtractDocx(data []byte) (string, error) {
	text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w (%v)", ErrEmptyContent, err)
	}
	return strings.TrimSpace(text), nil
}
