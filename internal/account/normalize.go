package account

import (
	"encoding/base32"

	"github.com/atinyakov/otpmigrate/internal/migration"
	"github.com/atinyakov/otpmigrate/internal/models"
)

// DisplayName composes the label shown for an account: "issuer (name)" when
// both are present, whichever one is present otherwise, and
// models.UnknownName when neither is.
func DisplayName(issuer, name string) string {
	switch {
	case issuer != "" && name != "":
		return issuer + " (" + name + ")"
	case issuer != "":
		return issuer
	case name != "":
		return name
	default:
		return models.UnknownName
	}
}

// EncodeSecret renders raw secret bytes as padded, upper-case RFC 4648
// Base32. The length of the secret is not checked.
func EncodeSecret(secret []byte) string {
	return base32.StdEncoding.EncodeToString(secret)
}

// FromRecord normalizes a raw migration record.
func FromRecord(r migration.Record) models.Account {
	return models.Account{
		Name:      DisplayName(r.Issuer, r.Name),
		Secret:    EncodeSecret(r.Secret),
		Digits:    DigitsFromCode(r.Digits).Length(),
		Algorithm: AlgorithmFromCode(r.Algorithm).String(),
	}
}

// FromPayload normalizes every record of a migration batch, in order.
func FromPayload(p *migration.Payload) []models.Account {
	out := make([]models.Account, 0, len(p.Records))
	for _, r := range p.Records {
		out = append(out, FromRecord(r))
	}
	return out
}
