// Package share builds shareable join links for a room and renders them as
// QR codes, the console counterpart of the lobby's copy-code button.
package share

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// JoinURL returns the lobby entry URL with the room code prefilled.
func JoinURL(baseURL, code string) string {
	return fmt.Sprintf("%s/menu.html?join=%s", strings.TrimSuffix(baseURL, "/"), code)
}

// WriteQR renders url as a QR code PNG at path.
func WriteQR(path, url string) error {
	return qrcode.WriteFile(url, qrcode.Medium, 256, path)
}
