// Package whatsapp builds pre-filled click-to-chat links for orders.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"farmstore/internal/domain"
	"farmstore/internal/money"
)

const baseURL = "https://wa.me/"

// Link builds order messages addressed to one business number.
type Link struct {
	number string
}

// New returns a Link for number, given in international format without "+".
func New(number string) *Link {
	return &Link{number: strings.TrimPrefix(strings.TrimSpace(number), "+")}
}

// Message renders the order summary sent to the business.
func (l *Link) Message(o domain.Order) string {
	var b strings.Builder
	b.WriteString("Hello! I'd like to place an order:\n\n")
	fmt.Fprintf(&b, "Order Ref: %s\n\n", o.Reference)
	for _, line := range o.Lines {
		sub := line.SubtotalNGN
		if o.Currency == domain.CurrencyUSD {
			sub = line.SubtotalUSD
		}
		fmt.Fprintf(&b, "%dx %s - %s\n", line.Quantity, line.ProductName, money.Format(sub, o.Currency))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n\n", money.Format(o.Total(), o.Currency))
	fmt.Fprintf(&b, "Delivery Address: %s\n", o.DeliveryAddress)
	fmt.Fprintf(&b, "Phone: %s", o.DeliveryPhone)
	if notes := strings.TrimSpace(o.DeliveryNotes); notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s", notes)
	}
	return b.String()
}

// URL returns the wa.me link carrying the encoded message.
func (l *Link) URL(o domain.Order) string {
	text := strings.ReplaceAll(url.QueryEscape(l.Message(o)), "+", "%20")
	return baseURL + l.number + "?text=" + text
}
