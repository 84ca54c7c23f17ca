// Package mockapi is a local stand-in for the waitlist service, speaking the
// same register and activate protocol. Applicants live in memory.
package mockapi

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
)

var (
	ErrAlreadyRegistered = errors.New("address already registered")
	ErrSelfSponsor       = errors.New("sponsor must differ from address")
	ErrUnknownToken      = errors.New("unknown activation token or code")
	ErrAlreadyActivated  = errors.New("already activated")
	ErrSponsorNotFound   = errors.New("sponsor not found")
)

// Applicant is one registration, pending until activated.
type Applicant struct {
	Address   string
	Email     string
	Sponsor   string
	Token     string
	Hash      string
	Activated bool
}

type Registry struct {
	mu         sync.Mutex
	byToken    map[string]*Applicant
	byAddress  map[string]*Applicant
	genesis    map[string]bool
	siteOrigin string
}

// New creates an empty registry. Genesis sponsors can sponsor without being
// members themselves.
func New(siteOrigin string, genesis ...string) *Registry {
	r := &Registry{
		byToken:    make(map[string]*Applicant),
		byAddress:  make(map[string]*Applicant),
		genesis:    make(map[string]bool, len(genesis)),
		siteOrigin: strings.TrimRight(siteOrigin, "/"),
	}
	for _, g := range genesis {
		r.genesis[g] = true
	}
	return r
}

// ActivationHash derives the verification code mailed with token.
func ActivationHash(token, email string) string {
	sum := sha3.Sum256([]byte(token + ":" + email))
	return hex.EncodeToString(sum[:])
}

func (r *Registry) Register(address, email, sponsor string) (Applicant, error) {
	if address == sponsor {
		return Applicant{}, ErrSelfSponsor
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byAddress[address]; exists {
		return Applicant{}, ErrAlreadyRegistered
	}
	a := &Applicant{
		Address: address,
		Email:   email,
		Sponsor: sponsor,
		Token:   uuid.NewString(),
	}
	a.Hash = ActivationHash(a.Token, email)
	r.byToken[a.Token] = a
	r.byAddress[address] = a
	return *a, nil
}

// Activate checks the code against the token and, when the sponsor is known,
// admits the applicant.
func (r *Registry) Activate(token, hash string) (Applicant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byToken[token]
	if !ok || subtle.ConstantTimeCompare([]byte(a.Hash), []byte(strings.ToLower(hash))) != 1 {
		return Applicant{}, ErrUnknownToken
	}
	if a.Activated {
		return Applicant{}, ErrAlreadyActivated
	}
	if !r.genesis[a.Sponsor] {
		sponsor, ok := r.byAddress[a.Sponsor]
		if !ok || !sponsor.Activated {
			return Applicant{}, ErrSponsorNotFound
		}
	}
	a.Activated = true
	return *a, nil
}

// Lookup returns the registration for address.
func (r *Registry) Lookup(address string) (Applicant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byAddress[address]
	if !ok {
		return Applicant{}, false
	}
	return *a, true
}

// ActivationLink is the page the verification email points at.
func (r *Registry) ActivationLink(token string) string {
	return r.siteOrigin + "/activate/" + token
}
