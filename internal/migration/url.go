package migration

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/atinyakov/otpmigrate/internal/models"
)

// Scheme is the URL scheme of bulk exports.
const Scheme = "otpauth-migration"

// Prefix is the text every migration URL starts with.
const Prefix = Scheme + "://"

var urlSafe = strings.NewReplacer("-", "+", "_", "/")

// DataFromURL extracts and decodes the base64 "data" parameter of a
// migration URL. Both base64 alphabets are accepted, padded or not.
func DataFromURL(raw string) ([]byte, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: parse url: %v", models.ErrMalformedPayload, err)
	}
	if u.Scheme != Scheme {
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedScheme, u.Scheme)
	}
	data := u.Query().Get("data")
	if data == "" {
		return nil, fmt.Errorf("%w: data", models.ErrMissingRequiredField)
	}

	// Query decoding turns a literal '+' into a space.
	data = strings.ReplaceAll(data, " ", "+")
	data = urlSafe.Replace(strings.TrimRight(data, "="))
	payload, err := base64.RawStdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode data: %v", models.ErrMalformedPayload, err)
	}
	return payload, nil
}

// ParseURL decodes the payload embedded in a migration URL.
func ParseURL(raw string) (*Payload, error) {
	data, err := DataFromURL(raw)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
