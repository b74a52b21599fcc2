// Package service classifies decoded QR texts, routes each one to the
// single-account or migration decoder, and collects the normalized
// accounts together with a per-item report.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/atinyakov/otpmigrate/internal/account"
	"github.com/atinyakov/otpmigrate/internal/migration"
	"github.com/atinyakov/otpmigrate/internal/models"
	"github.com/atinyakov/otpmigrate/internal/otpauth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// previewLen bounds how much of an unrecognized text is logged.
const previewLen = 50

// Importer decodes batches of texts. It holds no per-call state and may be
// shared.
type Importer struct {
	log *zap.Logger
}

// NewImporter constructs an Importer that logs item outcomes to log.
// A nil logger disables logging.
func NewImporter(log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{log: log}
}

// Classify reports which decoder handles text.
func Classify(text string) models.Kind {
	switch {
	case strings.HasPrefix(text, otpauth.Prefix):
		return models.KindSingle
	case strings.HasPrefix(text, migration.Prefix):
		return models.KindMigration
	default:
		return models.KindUnknown
	}
}

// Import decodes texts in order. Item failures never stop the batch; they
// are recorded in the report. When no usable account results, the report
// is returned together with models.ErrNoAccountsFound. A cancelled context
// stops processing between items.
func (im *Importer) Import(ctx context.Context, texts []string) (*Report, error) {
	rep := &Report{ID: uuid.NewString()}
	log := im.log.With(zap.String("run", rep.ID))

	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		text = strings.TrimSpace(text)
		out := Outcome{Index: i, Kind: Classify(text)}

		switch out.Kind {
		case models.KindSingle:
			acc, err := otpauth.Parse(text)
			if err != nil {
				out.Err = err
				log.Warn("skipped otpauth url", zap.Int("item", i), zap.Error(err))
				break
			}
			rep.Accounts = append(rep.Accounts, acc)
			out.Accounts = 1
			log.Info("parsed account", zap.Int("item", i), zap.String("name", acc.Name))

		case models.KindMigration:
			p, err := migration.ParseURL(text)
			if err != nil {
				out.Err = err
				log.Warn("failed to parse migration url", zap.Int("item", i), zap.Error(err))
				break
			}
			accs := account.FromPayload(p)
			rep.Accounts = append(rep.Accounts, accs...)
			out.Accounts = len(accs)
			out.Dropped = p.Dropped
			for _, err := range p.Dropped {
				log.Warn("dropped migration entry", zap.Int("item", i), zap.Error(err))
			}
			log.Info("extracted accounts from migration",
				zap.Int("item", i),
				zap.Int("accounts", len(accs)),
				zap.Int32("batch_index", p.BatchIndex),
				zap.Int32("batch_size", p.BatchSize),
			)

		default:
			out.Err = fmt.Errorf("%w: %q", models.ErrUnsupportedScheme, preview(text))
			log.Warn("unknown url format", zap.Int("item", i), zap.String("text", preview(text)))
		}
		rep.Items = append(rep.Items, out)
	}

	if len(rep.Accounts) == 0 {
		log.Warn("no valid accounts found", zap.Int("items", len(texts)))
		return rep, models.ErrNoAccountsFound
	}
	return rep, nil
}

func preview(s string) string {
	if r := []rune(s); len(r) > previewLen {
		return string(r[:previewLen]) + "..."
	}
	return s
}
