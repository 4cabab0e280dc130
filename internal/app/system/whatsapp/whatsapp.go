// Package whatsapp composes wa.me deep links for the support and follow-up
// buttons in the portal.
package whatsapp

import (
	"net/url"
	"strings"
)

// Link returns a wa.me URL that opens a chat with the given number,
// optionally pre-filled with text. The number may contain spaces, hyphens,
// or a leading plus sign; only digits end up in the link.
func Link(number, text string) string {
	digits := digitsOnly(number)
	if digits == "" {
		return ""
	}
	u := "https://wa.me/" + digits
	if text != "" {
		u += "?text=" + url.QueryEscape(text)
	}
	return u
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
