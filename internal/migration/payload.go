// Package migration decodes the bulk export carried by otpauth-migration://
// URLs into raw OTP parameter records.
//
// The payload is a protocol buffer MigrationPayload message:
//
//	message MigrationPayload {
//	  repeated OtpParameters otp_parameters = 1;
//	  int32 version = 2;
//	  int32 batch_size = 3;
//	  int32 batch_index = 4;
//	  int32 batch_id = 5;
//	}
//
//	message OtpParameters {
//	  bytes secret = 1;
//	  string name = 2;
//	  string issuer = 3;
//	  Algorithm algorithm = 4;
//	  DigitCount digits = 5;
//	  OtpType type = 6;
//	  int64 counter = 7;
//	}
package migration

import (
	"bytes"
	"fmt"

	"github.com/atinyakov/otpmigrate/internal/models"
	"github.com/atinyakov/otpmigrate/internal/wire"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	fieldOtpParameters protowire.Number = 1
	fieldVersion       protowire.Number = 2
	fieldBatchSize     protowire.Number = 3
	fieldBatchIndex    protowire.Number = 4
	fieldBatchID       protowire.Number = 5
)

const (
	paramSecret    protowire.Number = 1
	paramName      protowire.Number = 2
	paramIssuer    protowire.Number = 3
	paramAlgorithm protowire.Number = 4
	paramDigits    protowire.Number = 5
	paramType      protowire.Number = 6
	paramCounter   protowire.Number = 7
)

// Type discriminates counter-based from time-based accounts.
type Type int32

const (
	TypeUnspecified Type = 0
	TypeHOTP        Type = 1
	TypeTOTP        Type = 2
)

func (t Type) String() string {
	switch t {
	case TypeHOTP:
		return "hotp"
	case TypeTOTP:
		return "totp"
	default:
		return "unspecified"
	}
}

// Record is one OtpParameters entry as it appears on the wire. Algorithm
// and Digits are the export format's enum codes, not literal values.
type Record struct {
	Secret    []byte
	Name      string
	Issuer    string
	Algorithm int32
	Digits    int32
	Type      Type

	// Counter is only meaningful for HOTP records and is carried as-is.
	Counter    int64
	HasCounter bool
}

// Payload is a decoded migration batch.
type Payload struct {
	// Records are the usable entries in encounter order.
	Records []Record
	// Dropped holds one error for each entry that was skipped.
	Dropped []error

	Version    int32
	BatchSize  int32
	BatchIndex int32
	BatchID    int32
}

// Parse decodes a MigrationPayload message. It fails only when the
// top-level framing is broken; entries without a secret or with corrupt
// framing of their own are recorded in Dropped and the batch continues.
func Parse(buf []byte) (*Payload, error) {
	p := new(Payload)
	entry := 0
	err := wire.Decode(buf, wire.Handlers{
		fieldOtpParameters: wire.Message(func(b []byte) error {
			entry++
			rec, err := parseRecord(b)
			if err != nil {
				p.Dropped = append(p.Dropped, fmt.Errorf("entry %d: %w", entry, err))
				return nil
			}
			p.Records = append(p.Records, rec)
			return nil
		}),
		fieldVersion:    wire.Int32(&p.Version),
		fieldBatchSize:  wire.Int32(&p.BatchSize),
		fieldBatchIndex: wire.Int32(&p.BatchIndex),
		fieldBatchID:    wire.Int32(&p.BatchID),
	})
	if err != nil {
		return nil, fmt.Errorf("parse migration payload: %w", err)
	}
	return p, nil
}

func parseRecord(b []byte) (Record, error) {
	var (
		rec  Record
		kind int32
	)
	err := wire.Decode(b, wire.Handlers{
		paramSecret:    wire.Bytes(&rec.Secret),
		paramName:      wire.String(&rec.Name),
		paramIssuer:    wire.String(&rec.Issuer),
		paramAlgorithm: wire.Int32(&rec.Algorithm),
		paramDigits:    wire.Int32(&rec.Digits),
		paramType:      wire.Int32(&kind),
		paramCounter:   wire.Int64(&rec.Counter, &rec.HasCounter),
	})
	if err != nil {
		return Record{}, err
	}
	if len(rec.Secret) == 0 {
		return Record{}, fmt.Errorf("%w: secret", models.ErrMissingRequiredField)
	}
	rec.Secret = bytes.Clone(rec.Secret)
	rec.Type = Type(kind)
	return rec, nil
}
