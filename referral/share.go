package referral

import "net/url"

// Share is what the page hands to the native share sheet, plus fallbacks for
// browsers without one.
type Share struct {
	Title    string
	Text     string
	URL      string
	Fallback []Target
}

type Target struct {
	Name string
	Href string
}

func ShareTargets(link, brand string) Share {
	s := Share{
		Title: "Join " + brand + " Waitlist",
		Text:  "Get exclusive early access to " + brand + " - Confidential OTC Trading on Solana",
		URL:   link,
	}

	x := url.Values{}
	x.Set("text", s.Text)
	x.Set("url", link)

	tg := url.Values{}
	tg.Set("url", link)
	tg.Set("text", s.Text)

	s.Fallback = []Target{
		{Name: "X", Href: "https://twitter.com/intent/tweet?" + x.Encode()},
		{Name: "Telegram", Href: "https://t.me/share/url?" + tg.Encode()},
	}
	return s
}
