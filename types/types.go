package types

// RegistrationRequest is the body of POST /register on the waitlist service.
type RegistrationRequest struct {
	Address string `json:"Address"`
	Email   string `json:"Email"`
	Sponsor string `json:"Sponsor"`
}

type RegistrationResponse struct {
	Hash string `json:"hash"`
}

type RegistrationError struct {
	Message string `json:"message"`
}

type ActivationResponse struct {
	Address string `json:"address"`
}

type ActivationError struct {
	Error string `json:"error"`
}

type WaitlistForm struct {
	Address string `form:"address" json:"address" validate:"required,solana_address"`
	Email   string `form:"email" json:"email" validate:"required,loose_email"`
	Sponsor string `form:"sponsor" json:"sponsor" validate:"required,solana_address"`
}

// ActivationForm carries the hash being submitted and, after a refusal, the
// hash that was refused.
type ActivationForm struct {
	Hash      string `form:"hash" validate:"required,sha3_hex"`
	ErrorHash string `form:"error_hash"`
}

// ValidationResult answers the site's own field-check endpoint.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}
