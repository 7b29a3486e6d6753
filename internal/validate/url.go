package validate

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/revsum/revsum/internal/model"
	"golang.org/x/net/publicsuffix"
)

// urlPattern accepts http(s):// or www. followed by at least one non-space character
var urlPattern = regexp.MustCompile(`^(https?://|www\.)\S+`)

// HasURLShape reports whether candidate starts with a recognized scheme or host prefix
func HasURLShape(candidate string) bool {
	return urlPattern.MatchString(candidate)
}

// MatchSite returns the directory key contained in candidate, if any.
// Longer keys win so "amazon" does not shadow a more specific "amazonfresh".
func MatchSite(candidate string, dir model.SiteDirectory) (string, bool) {
	lower := strings.ToLower(candidate)

	keys := dir.Keys()
	sort.SliceStable(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	for _, key := range keys {
		if key != "" && strings.Contains(lower, key) {
			return key, true
		}
	}
	return "", false
}

// IsValid reports whether candidate has URL shape and names a supported site
func IsValid(candidate string, dir model.SiteDirectory) bool {
	if !HasURLShape(candidate) {
		return false
	}
	_, ok := MatchSite(candidate, dir)
	return ok
}

// Normalize trims input and rewrites a leading "www." to "https://www."
// so submissions always carry a scheme.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "www.") {
		s = "https://" + s
	}
	return s
}

// Report explains a validation decision
type Report struct {
	Input     string `json:"input"`
	URL       string `json:"url"` // Normalized form that would be submitted
	Shape     bool   `json:"shape_ok"`
	SiteKey   string `json:"site_key,omitempty"`
	Supported bool   `json:"supported"`
	Host      string `json:"host,omitempty"`
	Domain    string `json:"domain,omitempty"` // Registrable domain (eTLD+1)
	Valid     bool   `json:"valid"`
}

// Check validates candidate and records why
func Check(candidate string, dir model.SiteDirectory) Report {
	trimmed := strings.TrimSpace(candidate)
	r := Report{
		Input: candidate,
		URL:   Normalize(trimmed),
		Shape: HasURLShape(trimmed),
	}
	r.SiteKey, r.Supported = MatchSite(trimmed, dir)
	r.Valid = r.Shape && r.Supported

	if u, err := url.Parse(r.URL); err == nil && u.Hostname() != "" {
		r.Host = strings.ToLower(u.Hostname())
		if domain, err := publicsuffix.EffectiveTLDPlusOne(r.Host); err == nil {
			r.Domain = domain
		}
	}

	return r
}
