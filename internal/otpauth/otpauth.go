// Package otpauth parses single-account otpauth:// provisioning URLs of the
// form
//
//	otpauth://TYPE/LABEL?secret=SECRET&issuer=ISSUER&algorithm=ALG&digits=N
//
// into normalized accounts.
package otpauth

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/atinyakov/otpmigrate/internal/account"
	"github.com/atinyakov/otpmigrate/internal/models"
)

// Scheme is the URL scheme of single-account URLs.
const Scheme = "otpauth"

// Prefix is the text every single-account URL starts with.
const Prefix = Scheme + "://"

// Parse decodes one otpauth:// URL. A URL with another scheme reports
// models.ErrUnsupportedScheme and one without a secret reports
// models.ErrMissingRequiredField; neither yields an account.
func Parse(raw string) (models.Account, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return models.Account{}, fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != Scheme {
		return models.Account{}, fmt.Errorf("%w: %q", models.ErrUnsupportedScheme, u.Scheme)
	}

	q := u.Query()
	secret := cleanSecret(q.Get("secret"))
	if secret == "" {
		return models.Account{}, fmt.Errorf("%w: secret", models.ErrMissingRequiredField)
	}

	issuer, name := SplitLabel(strings.TrimPrefix(u.Path, "/"), q.Get("issuer"))
	return models.Account{
		Name:      account.DisplayName(issuer, name),
		Secret:    secret,
		Digits:    account.DigitsFromText(q.Get("digits")).Length(),
		Algorithm: account.AlgorithmFromName(q.Get("algorithm")).String(),
	}, nil
}

// SplitLabel resolves the issuer and account name of a decoded label. In an
// "issuer:name" label the prefix is the issuer only when the issuer query
// parameter is empty; a non-empty parameter always wins, and the label
// still contributes the part after the first colon as the account name.
func SplitLabel(label, issuerParam string) (issuer, name string) {
	prefix, rest, found := strings.Cut(label, ":")
	if !found {
		return issuerParam, label
	}
	if issuerParam != "" {
		return issuerParam, rest
	}
	return prefix, rest
}

// cleanSecret removes whitespace and upper-cases a Base32 secret so that
// hand-typed keys ("abcd efgh") normalize to their canonical form.
func cleanSecret(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}
