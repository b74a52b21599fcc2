// Package models defines the canonical account records produced by the
// importer and the document they are written in.
package models

// Account is a normalized OTP account ready for display or storage.
type Account struct {
	// Name is the display label composed from issuer and account name.
	// It is never empty.
	Name string `json:"name"`
	// Secret is the RFC 4648 Base32 encoding of the shared secret.
	Secret string `json:"secret"`
	// Digits is the code length, one of 6, 7 or 8.
	Digits int `json:"digits"`
	// Algorithm is one of "SHA1", "SHA256", "SHA512" or "MD5".
	Algorithm string `json:"algorithm"`
}

// Document is the on-disk representation consumed by the tray application.
type Document struct {
	Accounts []Account `json:"accounts"`
}

// UnknownName is the display name used when neither an issuer nor an
// account name is available.
const UnknownName = "Unknown"

// Kind identifies how a decoded text was classified.
type Kind string

const (
	// KindSingle is an otpauth:// URL carrying one account.
	KindSingle Kind = "otpauth"
	// KindMigration is an otpauth-migration:// URL carrying a batch.
	KindMigration Kind = "otpauth-migration"
	// KindUnknown is any other text.
	KindUnknown Kind = "unknown"
)
