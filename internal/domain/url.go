package domain

import "strings"

// AvailablePlatforms holds the host fragments of supported group-invite
// platforms. Matching is deliberately a permissive substring check, not full
// URL parsing; the server re-validates on creation.
var AvailablePlatforms = []string{
	"https://chat.whatsapp.com/",
	"t.me",
	"ig.me",
}

// ValidateGroupURL reports whether the URL targets a supported platform.
func ValidateGroupURL(url string) bool {
	for _, platform := range AvailablePlatforms {
		if strings.Contains(url, platform) {
			return true
		}
	}
	return false
}
