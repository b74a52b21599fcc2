package account_test

import (
	"crypto/rand"
	"encoding/base32"
	"testing"
	"time"

	"github.com/atinyakov/otpmigrate/internal/account"
	"github.com/atinyakov/otpmigrate/internal/migration"
	"github.com/atinyakov/otpmigrate/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		issuer, name string
		want         string
	}{
		{"X", "Y", "X (Y)"},
		{"Y", "X", "Y (X)"},
		{"X", "", "X"},
		{"", "Y", "Y"},
		{"", "", "Unknown"},
		{"GitHub", "Ericlein", "GitHub (Ericlein)"},
	}
	for _, tc := range tests {
		if got := account.DisplayName(tc.issuer, tc.name); got != tc.want {
			t.Errorf("DisplayName(%q, %q) = %q; want %q", tc.issuer, tc.name, got, tc.want)
		}
	}
}

func TestEncodeSecret(t *testing.T) {
	assert.Equal(t, "AAAQ====", account.EncodeSecret([]byte{0x00, 0x01}))
	assert.Equal(t, "74======", account.EncodeSecret([]byte{0xff}))
	assert.Equal(t, "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ", account.EncodeSecret([]byte("12345678901234567890")))
	assert.Equal(t, "", account.EncodeSecret(nil))
}

func TestEncodeSecret_roundTrip(t *testing.T) {
	for n := 1; n <= 64; n++ {
		secret := make([]byte, n)
		_, err := rand.Read(secret)
		require.NoError(t, err)

		enc := account.EncodeSecret(secret)
		dec, err := base32.StdEncoding.DecodeString(enc)
		require.NoError(t, err, "decode %q", enc)
		assert.Equal(t, secret, dec, "length %d", n)
	}
}

func TestFromPayload(t *testing.T) {
	p := &migration.Payload{Records: []migration.Record{
		{Secret: []byte{0x00, 0x01}, Name: "Ericlein", Issuer: "GitHub", Algorithm: 1, Digits: 1, Type: migration.TypeTOTP},
		{Secret: []byte{0xff}, Issuer: "Discord", Algorithm: 9, Digits: 2, Type: migration.TypeTOTP},
		{Secret: []byte{0x10}, Algorithm: 4, Digits: 7, Type: migration.TypeHOTP, Counter: 3, HasCounter: true},
	}}
	want := []models.Account{
		{Name: "GitHub (Ericlein)", Secret: "AAAQ====", Digits: 6, Algorithm: "SHA1"},
		{Name: "Discord", Secret: "74======", Digits: 8, Algorithm: "SHA1"},
		{Name: "Unknown", Secret: "CA======", Digits: 6, Algorithm: "MD5"},
	}
	if diff := cmp.Diff(want, account.FromPayload(p)); diff != "" {
		t.Errorf("FromPayload: (-want, +got)\n%s", diff)
	}
}

// Normalized secrets must drive a standard OTP generator to the RFC 6238
// and RFC 4226 reference codes.
func TestFromRecord_generatesReferenceCodes(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		algorithm int32
		want      string
	}{
		{"SHA1", "12345678901234567890", 1, "94287082"},
		{"SHA256", "12345678901234567890123456789012", 2, "46119246"},
		{"SHA512", "1234567890123456789012345678901234567890123456789012345678901234", 3, "90693936"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			acc := account.FromRecord(migration.Record{
				Secret:    []byte(tc.secret),
				Issuer:    "RFC",
				Algorithm: tc.algorithm,
				Digits:    2,
				Type:      migration.TypeTOTP,
			})
			require.Equal(t, 8, acc.Digits)

			code, err := totp.GenerateCodeCustom(acc.Secret, time.Unix(59, 0).UTC(), totp.ValidateOpts{
				Period:    30,
				Digits:    otp.Digits(acc.Digits),
				Algorithm: account.AlgorithmFromName(acc.Algorithm),
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, code)
		})
	}

	t.Run("HOTP", func(t *testing.T) {
		acc := account.FromRecord(migration.Record{
			Secret:    []byte("12345678901234567890"),
			Algorithm: 1,
			Digits:    1,
			Type:      migration.TypeHOTP,
		})
		for counter, want := range []string{"755224", "287082", "359152"} {
			code, err := hotp.GenerateCodeCustom(acc.Secret, uint64(counter), hotp.ValidateOpts{
				Digits:    otp.Digits(acc.Digits),
				Algorithm: account.AlgorithmFromName(acc.Algorithm),
			})
			require.NoError(t, err)
			assert.Equal(t, want, code, "counter %d", counter)
		}
	})
}
