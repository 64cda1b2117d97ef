package markdown

import (
	"fmt"
	"net/url"
	"strings"
)

// Origin is the (scheme, host, port) triple two URLs must share to be
// considered the same site.
type Origin struct {
	Scheme string
	Host   string
	Port   string
}

func (o Origin) String() string {
	return o.Scheme + "://" + o.Host + ":" + o.Port
}

// ParseOrigin returns the origin of an absolute http or https URL.
func ParseOrigin(raw string) (Origin, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Origin{}, err
	}
	o, ok := originOf(u, "")
	if !ok {
		return Origin{}, fmt.Errorf("%q is not an absolute http(s) URL", raw)
	}
	return o, nil
}

// originOf derives the origin of u. A scheme-less URL with a host
// (protocol-relative, "//host/path") takes defaultScheme. ok is false for
// relative references and for schemes other than http and https.
func originOf(u *url.URL, defaultScheme string) (Origin, bool) {
	if u.Host == "" {
		return Origin{}, false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme == "" {
		scheme = defaultScheme
	}
	if scheme != "http" && scheme != "https" {
		return Origin{}, false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return Origin{}, false
	}
	port := u.Port()
	if port == "" {
		port = defaultPort(scheme)
	}
	return Origin{Scheme: scheme, Host: host, Port: port}, true
}

func defaultPort(scheme string) string {
	if scheme == "https" {
		return "443"
	}
	return "80"
}
