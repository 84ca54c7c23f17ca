// Package validate holds the client-side gates applied to waitlist and
// activation input before anything is sent to the waitlist service.
package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/go-playground/validator/v10"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	hashPattern  = regexp.MustCompile(`^(?:[0-9a-fA-F]{64}|[0-9a-fA-F]{128})$`)
)

// IsOnCurveAddress reports whether addr is a base58 Solana public key whose
// bytes lie on the Ed25519 curve. Program-derived addresses are rejected.
func IsOnCurveAddress(addr string) bool {
	pk, err := solana.PublicKeyFromBase58(addr)
	if err != nil {
		return false
	}
	return solana.IsOnCurve(pk.Bytes())
}

// IsValidEmail is a shape check only; the waitlist service decides.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidSHA3Hash accepts SHA3-256 and SHA3-512 hex digests.
func IsValidSHA3Hash(hash string) bool {
	return hashPattern.MatchString(hash)
}

var messages = map[string]string{
	"address.required":       "Wallet address is required",
	"address.solana_address": "Invalid Solana address or address is not on curve",
	"email.required":         "Email is required",
	"email.loose_email":      "Please enter a valid email address",
	"sponsor.required":       "Sponsor address is required",
	"sponsor.solana_address": "Invalid Solana address or address is not on curve",
	"hash.required":          "Hash is required",
	"hash.sha3_hex":          "Invalid hash format. Please enter a valid SHA3 hash (64 or 128 hexadecimal characters)",
}

// Validator implements echo.Validator for the site's form structs.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	// registration only fails on an empty tag or nil func
	_ = v.RegisterValidation("solana_address", func(fl validator.FieldLevel) bool {
		return IsOnCurveAddress(fl.Field().String())
	})
	_ = v.RegisterValidation("loose_email", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("sha3_hex", func(fl validator.FieldLevel) bool {
		return IsValidSHA3Hash(fl.Field().String())
	})
	return &Validator{v: v}
}

func (cv *Validator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

// FieldErrors maps a validation failure to one user message per form field.
// It returns nil when err is not a validation failure.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		msg, ok := messages[field+"."+fe.Tag()]
		if !ok {
			msg = "Invalid value"
		}
		out[field] = msg
	}
	return out
}
