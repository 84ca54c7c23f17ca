package waitlist

import "net/http"

// Outcome classifies an activation response.
type Outcome int

const (
	Failed Outcome = iota
	Activated
	AccessDenied
	AlreadyActivated
	SponsorNotFound
	ServerError
	Unreachable
)

var outcomeNames = map[Outcome]string{
	Failed:           "failed",
	Activated:        "activated",
	AccessDenied:     "access_denied",
	AlreadyActivated: "already_activated",
	SponsorNotFound:  "sponsor_not_found",
	ServerError:      "server_error",
	Unreachable:      "unreachable",
}

func (o Outcome) String() string {
	return outcomeNames[o]
}

// Classify maps an activation status code to its outcome.
func Classify(status int) Outcome {
	switch status {
	case http.StatusCreated:
		return Activated
	case http.StatusUnauthorized:
		return AccessDenied
	case http.StatusConflict:
		return AlreadyActivated
	case http.StatusBadRequest:
		return SponsorNotFound
	case http.StatusInternalServerError:
		return ServerError
	default:
		return Failed
	}
}

// LocksHash reports whether the hash that produced o must be edited before it
// can be submitted again.
func (o Outcome) LocksHash() bool {
	switch o {
	case AccessDenied, AlreadyActivated, SponsorNotFound:
		return true
	}
	return false
}
