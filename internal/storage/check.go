package storage

import (
	"fmt"

	"github.com/atinyakov/otpmigrate/internal/models"
	"go.uber.org/multierr"
)

var algorithms = map[string]bool{"SHA1": true, "SHA256": true, "SHA512": true, "MD5": true}

// Validate reports every account that breaks the document invariants.
func Validate(doc *models.Document) error {
	var err error
	for i, a := range doc.Accounts {
		if a.Name == "" {
			err = multierr.Append(err, fmt.Errorf("account %d: empty name", i))
		}
		if a.Secret == "" {
			err = multierr.Append(err, fmt.Errorf("account %d (%s): %w: secret", i, a.Name, models.ErrMissingRequiredField))
		}
		if a.Digits < 6 || a.Digits > 8 {
			err = multierr.Append(err, fmt.Errorf("account %d (%s): invalid digits %d", i, a.Name, a.Digits))
		}
		if !algorithms[a.Algorithm] {
			err = multierr.Append(err, fmt.Errorf("account %d (%s): invalid algorithm %q", i, a.Name, a.Algorithm))
		}
	}
	return err
}

// Check loads the document at path and validates it, returning the number
// of accounts it holds.
func Check(path string) (int, error) {
	doc, err := Load(path)
	if err != nil {
		return 0, err
	}
	return len(doc.Accounts), Validate(doc)
}
