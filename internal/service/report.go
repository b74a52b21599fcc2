package service

import (
	"fmt"

	"github.com/atinyakov/otpmigrate/internal/models"
	"go.uber.org/multierr"
)

// Outcome records what happened to one decoded text.
type Outcome struct {
	// Index is the position of the text in the input.
	Index int
	Kind  models.Kind
	// Accounts is the number of accounts the text contributed.
	Accounts int
	// Err is set when the text yielded nothing: an unsupported scheme, a
	// missing secret, or a migration batch that could not be decoded.
	Err error
	// Dropped holds the entries of a decoded migration batch that were
	// skipped.
	Dropped []error
}

// Report is the result of one Import call.
type Report struct {
	// ID tags the run in logs and responses.
	ID string
	// Accounts are the normalized accounts in input order. Duplicates are
	// kept.
	Accounts []models.Account
	Items    []Outcome
}

// Document returns the accounts in their output form.
func (r *Report) Document() models.Document {
	accs := r.Accounts
	if accs == nil {
		accs = []models.Account{}
	}
	return models.Document{Accounts: accs}
}

// Failed returns the outcomes that yielded nothing or dropped entries.
func (r *Report) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Items {
		if o.Err != nil || len(o.Dropped) != 0 {
			out = append(out, o)
		}
	}
	return out
}

// Err combines every item and entry failure, each annotated with its item
// index. It is nil when everything decoded cleanly.
func (r *Report) Err() error {
	var err error
	for _, o := range r.Items {
		if o.Err != nil {
			err = multierr.Append(err, fmt.Errorf("item %d (%s): %w", o.Index, o.Kind, o.Err))
		}
		for _, d := range o.Dropped {
			err = multierr.Append(err, fmt.Errorf("item %d (%s): %w", o.Index, o.Kind, d))
		}
	}
	return err
}
