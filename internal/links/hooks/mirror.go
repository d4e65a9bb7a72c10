package hooks

import (
	"fmt"
	"net/url"
	"strings"
)

// NameMirror is the registry name of the privacy-mirror substitution hook.
const NameMirror = "mirror"

// mirrorHosts maps tracking-heavy hosts to privacy-preserving frontends.
// Only the host is replaced; path, query and fragment survive as-is.
var mirrorHosts = map[string]string{
	"twitter.com":     "nitter.net",
	"www.twitter.com": "nitter.net",
	"x.com":           "nitter.net",
	"www.x.com":       "nitter.net",
	"youtube.com":     "yewtu.be",
	"www.youtube.com": "yewtu.be",
	"m.youtube.com":   "yewtu.be",
	"youtu.be":        "yewtu.be",
	"medium.com":      "scribe.rip",
	"www.medium.com":  "scribe.rip",
}

// Mirror swaps the URL's host for its configured mirror. Hosts without a
// mirror entry fail, which stops the hook chain for rules that apply it to
// the wrong domain.
func Mirror(u *url.URL) (*url.URL, error) {
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return nil, fmt.Errorf("url has no host")
	}

	replacement, ok := mirrorHosts[host]
	if !ok {
		return nil, fmt.Errorf("no mirror configured for host %q", host)
	}

	out := *u
	if port := u.Port(); port != "" {
		out.Host = replacement + ":" + port
	} else {
		out.Host = replacement
	}
	return &out, nil
}
