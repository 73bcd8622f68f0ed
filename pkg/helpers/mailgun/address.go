// SPDX-License-Identifier: MPL-2.0

package mailgun

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// ErrInvalidAddress is returned by ParseAddress for unparsable input.
var ErrInvalidAddress = errors.New("invalid email address")

// EmailAddress is a mailbox with an optional display name.
type EmailAddress struct {
	Name    string
	Address string
}

// ParseAddress parses an RFC 5322 address such as "Alice <alice@example.com>"
// or "alice@example.com".
func ParseAddress(s string) (EmailAddress, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil {
		return EmailAddress{}, fmt.Errorf("%w %q: %w", ErrInvalidAddress, s, err)
	}
	return EmailAddress{Name: strings.TrimSpace(addr.Name), Address: addr.Address}, nil
}

// ParseAddressList parses each entry of list.
func ParseAddressList(list []string) ([]EmailAddress, error) {
	out := make([]EmailAddress, 0, len(list))
	for _, s := range list {
		addr, err := ParseAddress(s)
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, nil
}

// String renders the bare address, or the quoted name followed by the
// address in angle brackets.
func (a EmailAddress) String() string {
	if a.Name == "" {
		return a.Address
	}
	return (&mail.Address{Name: a.Name, Address: a.Address}).String()
}
