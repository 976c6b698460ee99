package initdata

import (
	"sort"
	"strings"
)

// Sign returns an init data string for params carrying a valid hash under
// botToken and scheme. Any hash already in params is replaced. The user
// field is normalized and percent-encoded the way a browser would send it.
func Sign(params Params, botToken string, scheme Scheme) (string, error) {
	secret, err := DeriveSecret(botToken, scheme)
	if err != nil {
		return "", err
	}
	payload, user, err := canonicalize(params)
	if err != nil {
		return "", err
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		if key != hashKey {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	segments := make([]string, 0, len(keys)+1)
	for _, key := range keys {
		value := params[key]
		if key == userKey {
			value = escapeValue(user.String())
		}
		segments = append(segments, key+"="+value)
	}
	segments = append(segments, hashKey+"="+sign(secret, payload))
	return strings.Join(segments, "&"), nil
}
