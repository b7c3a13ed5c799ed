package analytics

import (
	"net/url"
	"strings"
)

const (
	SourceDirect    = "Direct"
	SourceGoogle    = "Google"
	SourceFacebook  = "Facebook"
	SourceTwitter   = "Twitter"
	SourceInstagram = "Instagram"
	SourceLinkedIn  = "LinkedIn"
	SourceOther     = "Other"
)

// ClassifySource maps a raw referrer to a known source.
func ClassifySource(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))

	switch {
	case s == "direct":
		return SourceDirect
	case strings.Contains(s, "google"):
		return SourceGoogle
	case containsAny(s, "facebook", "fb.com"):
		return SourceFacebook
	case strings.Contains(s, "twitter") || isHost(s, "t.co"):
		return SourceTwitter
	case strings.Contains(s, "instagram"):
		return SourceInstagram
	case strings.Contains(s, "linkedin"):
		return SourceLinkedIn
	default:
		return SourceOther
	}
}

// isHost matches by host rather than substring; "t.co" is a substring of
// plenty of unrelated domains.
func isHost(s, host string) bool {
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return false
	}

	h := u.Hostname()

	return h == host || strings.HasSuffix(h, "."+host)
}
