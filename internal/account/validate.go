// Package account turns decoded OTP parameters into models.Account values.
//
// The two input encodings describe digits differently: migration payloads
// carry an enum code while otpauth:// URLs carry the literal count. They
// have separate entry points here and share only the final allowed-set
// check, so one representation is never mistaken for the other.
package account

import (
	"strconv"
	"strings"

	"github.com/pquerna/otp"
)

// Algorithm enum codes of the migration format.
const (
	codeSHA1   = 1
	codeSHA256 = 2
	codeSHA512 = 3
	codeMD5    = 4
)

// DigitCount enum codes of the migration format.
const (
	codeDigitsUnspecified = 0
	codeDigitsSix         = 1
	codeDigitsEight       = 2
)

// AlgorithmFromCode maps a migration algorithm code. Unknown codes,
// including 0 (unspecified), map to SHA1.
func AlgorithmFromCode(code int32) otp.Algorithm {
	switch code {
	case codeSHA256:
		return otp.AlgorithmSHA256
	case codeSHA512:
		return otp.AlgorithmSHA512
	case codeMD5:
		return otp.AlgorithmMD5
	default:
		return otp.AlgorithmSHA1
	}
}

// AlgorithmFromName maps an otpauth:// algorithm parameter, ignoring case.
// Empty or unknown names map to SHA1.
func AlgorithmFromName(name string) otp.Algorithm {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "SHA256":
		return otp.AlgorithmSHA256
	case "SHA512":
		return otp.AlgorithmSHA512
	case "MD5":
		return otp.AlgorithmMD5
	default:
		return otp.AlgorithmSHA1
	}
}

// DigitsFromCode maps a migration DigitCount code to a digit count.
// Unspecified and unknown codes map to 6.
func DigitsFromCode(code int32) otp.Digits {
	var n int
	switch code {
	case codeDigitsSix, codeDigitsUnspecified:
		n = 6
	case codeDigitsEight:
		n = 8
	}
	return allowedDigits(n)
}

// DigitsFromText parses the literal digits parameter of an otpauth:// URL.
// Empty, unparseable and out-of-range values map to 6.
func DigitsFromText(s string) otp.Digits {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return otp.DigitsSix
	}
	return allowedDigits(n)
}

// allowedDigits reports n as a digit count if it is 6, 7 or 8, and 6 otherwise.
func allowedDigits(n int) otp.Digits {
	switch n {
	case 6, 7, 8:
		return otp.Digits(n)
	}
	return otp.DigitsSix
}
