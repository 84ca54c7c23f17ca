package notice

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. Pages and flash cookies carry keys, never rendered text.
const (
	WaitlistSent          = "waitlist.sent"
	WaitlistSentDetail    = "waitlist.sent.detail"
	WaitlistFailed        = "waitlist.failed"
	WaitlistFailedDetail  = "waitlist.failed.detail"
	WaitlistNetworkDetail = "waitlist.network.detail"
	SponsorInvalid        = "sponsor.invalid"
	SponsorInvalidDetail  = "sponsor.invalid.detail"

	NetworkError = "network.error"

	ActivationSucceeded     = "activation.succeeded"
	ActivationFailed        = "activation.failed"
	ActivationDeniedDetail  = "activation.denied.detail"
	AlreadyActivated        = "activation.conflict"
	AlreadyActivatedDetail  = "activation.conflict.detail"
	SponsorNotFound         = "activation.sponsor"
	SponsorNotFoundDetail   = "activation.sponsor.detail"
	ServerError             = "activation.server"
	UnexpectedDetail        = "activation.unexpected.detail"
	ActivationNetworkDetail = "activation.network.detail"
	HashUnchanged           = "activation.hash.unchanged"

	ReferralCopied       = "referral.copied"
	ReferralCopiedDetail = "referral.copied.detail"
	ReferralCopyFailed   = "referral.copy.failed"
	ReferralShareFailed  = "referral.share.failed"
	ReferralDownloaded   = "referral.downloaded"
)

var english = map[string]string{
	WaitlistSent:          "Verification email sent!",
	WaitlistSentDetail:    "Please check your inbox and confirm your email address to complete your waitlist registration.",
	WaitlistFailed:        "Registration failed",
	WaitlistFailedDetail:  "Please check your information and try again.",
	WaitlistNetworkDetail: "Unable to connect to the server. Please try again later.",
	SponsorInvalid:        "Invalid sponsor address",
	SponsorInvalidDetail:  "The sponsor address in the URL is invalid.",

	NetworkError: "Network error",

	ActivationSucceeded:     "Activation successful! Check your email for confirmation.",
	ActivationFailed:        "Activation failed",
	ActivationDeniedDetail:  "Access denied. Your activation link may have expired or the verification code doesn't match our records. Please request a new activation link.",
	AlreadyActivated:        "Already activated",
	AlreadyActivatedDetail:  "This account has already been activated. You're all set! Check your email for next steps.",
	SponsorNotFound:         "Invalid sponsor",
	SponsorNotFoundDetail:   "The referral sponsor could not be found. Please check your invitation link or contact support.",
	ServerError:             "Server error",
	UnexpectedDetail:        "An unexpected error occurred. Please try again later.",
	ActivationNetworkDetail: "Network error. Please check your connection and try again.",
	HashUnchanged:           "Edit the verification code before trying again.",

	ReferralCopied:       "Referral link copied!",
	ReferralCopiedDetail: "Share it with others to earn priority access",
	ReferralCopyFailed:   "Failed to copy link",
	ReferralShareFailed:  "Failed to share",
	ReferralDownloaded:   "QR code downloaded!",
}

var supported = []language.Tag{language.English}

var matcher = language.NewMatcher(supported)

func init() {
	for key, text := range english {
		_ = message.SetString(language.English, key, text)
	}
}

// Printer picks the best supported language for an Accept-Language header.
func Printer(acceptLanguage string) *message.Printer {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return message.NewPrinter(language.English)
	}
	_, index, _ := matcher.Match(tags...)
	return message.NewPrinter(supported[index])
}

// Text renders key with p, or with English when p is nil.
func Text(p *message.Printer, key string) string {
	if p == nil {
		p = message.NewPrinter(language.English)
	}
	return p.Sprintf(message.Key(key, english[key]))
}
