package services

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const fallbackImageMIME = "image/png"

// InlineImage renders image bytes as a data URI. Unrecognised payloads are
// tagged image/png. Empty input renders as "".
func InlineImage(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	mime := fallbackImageMIME
	if detected := mimetype.Detect(data); strings.HasPrefix(detected.String(), "image/") {
		mime = detected.String()
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
