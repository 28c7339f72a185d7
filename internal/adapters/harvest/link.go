package harvest

import (
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/target/harvest-extract/internal/errors"
)

// nextLink returns the rel="next" target of an RFC 5988 Link header, resolved against the
// page that carried it, or "" on the last page.
func nextLink(h http.Header, current *url.URL) (string, error) {
	for _, value := range h.Values("Link") {
		for _, part := range strings.Split(value, ",") {
			target, params, ok := strings.Cut(part, ";")
			if !ok {
				continue
			}
			if !hasRel(params, "next") {
				continue
			}
			target = strings.TrimSpace(target)
			if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
				return "", apperrors.Transportf("malformed Link header %q", value)
			}
			ref, err := url.Parse(target[1 : len(target)-1])
			if err != nil {
				return "", apperrors.Wrap(err, apperrors.ErrCodeTransport, "malformed next link")
			}
			if current != nil {
				ref = current.ResolveReference(ref)
			}
			return ref.String(), nil
		}
	}
	return "", nil
}

func hasRel(params, rel string) bool {
	for _, p := range strings.Split(params, ";") {
		key, val, ok := strings.Cut(strings.TrimSpace(p), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "rel") {
			continue
		}
		for _, r := range strings.Fields(strings.Trim(strings.TrimSpace(val), `"`)) {
			if strings.EqualFold(r, rel) {
				return true
			}
		}
	}
	return false
}
