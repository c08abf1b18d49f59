package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultQRServiceURL is the external image-generation endpoint. The actual
// rendering is delegated entirely to this service.
const DefaultQRServiceURL = "https://api.qrserver.com/v1/create-qr-code/"

// DefaultQRSize is the rendered QR image edge length in pixels.
const DefaultQRSize = 300

// SurveyURL derives the public survey entry URL for a location slug.
func SurveyURL(baseURL, slug string) string {
	return strings.TrimRight(baseURL, "/") + "/survey/" + slug
}

// QRImageURL builds the external service URL that renders a QR code pointing
// at target. size is the square edge in pixels; zero means DefaultQRSize.
func QRImageURL(serviceURL, target string, size int) string {
	if serviceURL == "" {
		serviceURL = DefaultQRServiceURL
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	return fmt.Sprintf("%s?size=%dx%d&data=%s", serviceURL, size, size, url.QueryEscape(target))
}

// IsNonPublicBaseURL reports whether a QR base URL points at a host that a
// visitor's phone cannot reach. Used to surface a dashboard warning, never to
// reject the value.
func IsNonPublicBaseURL(baseURL string) bool {
	u, err := url.Parse(baseURL)
	if err != nil {
		return true
	}
	host := u.Hostname()
	switch host {
	case "", "localhost", "127.0.0.1", "0.0.0.0", "::1":
		return true
	}
	return strings.HasSuffix(host, ".local") || strings.HasSuffix(host, ".internal")
}
