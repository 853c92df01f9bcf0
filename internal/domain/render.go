package domain

import (
	"net/url"
	"strings"
)

// RenderStyle selects how links are written in a rendered message.
type RenderStyle int

const (
	// StylePlain writes bare text and URLs, for consumers that show the string verbatim.
	StylePlain RenderStyle = iota
	// StyleMarkup writes links as <url|label>.
	StyleMarkup
)

const (
	noAddressLeft = "No address left"
	noMessageLeft = "No message left"
	unknownCaller = "Unknown"
	mapsSearchURL = "https://www.google.com/maps/search/?api=1&query="
)

// RenderMessage produces the human-readable summary: header, Caller, Address
// and Message lines. Both styles have the same lines in the same order.
func (c *Contact) RenderMessage(style RenderStyle) string {
	lines := []string{
		c.renderHeader(style),
		c.renderCaller(style),
		c.renderAddress(style),
		"Message: " + c.message.Or(noMessageLeft),
	}
	return strings.Join(lines, "\n")
}

func (c *Contact) renderHeader(style RenderStyle) string {
	header := "New " + c.contactType
	if style == StyleMarkup {
		return "*" + header + "*"
	}
	return header
}

// renderCaller writes "Caller: name ( channels ) ( email )".
func (c *Contact) renderCaller(style RenderStyle) string {
	var b strings.Builder
	b.WriteString("Caller: ")
	b.WriteString(c.name.Or(unknownCaller))

	phone := renderPhone(style, c.phone, c.phoneDigits)
	alternate := renderPhone(style, c.alternatePhone, c.alternatePhoneDigits)

	switch {
	case c.alternatePhone.Valid && c.phone.Valid && c.alternatePhone.Value != c.phone.Value:
		b.WriteString(" ( Left " + phone + " but called from: " + alternate + " )")
	case c.phone.Valid:
		b.WriteString(" ( " + phone + " )")
	case c.alternatePhone.Valid:
		b.WriteString(" ( " + alternate + " )")
	}

	if email, ok := c.email.Get(); ok {
		if style == StyleMarkup {
			email = link("mailto:"+email, email)
		}
		b.WriteString(" ( " + email + " )")
	}
	return b.String()
}

func (c *Contact) renderAddress(style RenderStyle) string {
	address, ok := c.address.Get()
	if !ok || !IsPlausibleAddress(address) {
		return "Address: " + noAddressLeft
	}
	mapsURL := MapsURL(address)
	if style == StyleMarkup {
		return "Address: " + link(mapsURL, address)
	}
	return "Address: " + mapsURL
}

func renderPhone(style RenderStyle, phone, digits Optional) string {
	if style == StyleMarkup && phone.Valid && digits.Valid {
		return link("tel:+1"+digits.Value, phone.Value)
	}
	return phone.Value
}

// MapsURL returns a map search link for an address.
func MapsURL(address string) string {
	return mapsSearchURL + url.QueryEscape(address)
}

func link(target, label string) string {
	return "<" + target + "|" + label + ">"
}
