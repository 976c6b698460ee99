package initdata

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	hashKey     = "hash"
	userKey     = "user"
	authDateKey = "auth_date"
)

// Params - the key/value pairs carried by an init data string
type Params map[string]string

// Parse splits raw init data on '&' and then on the first '='. Segments
// without '=' are dropped; a repeated key keeps its last value. Values are
// left exactly as they appear in raw.
func Parse(raw string) Params {
	params := make(Params)
	for _, segment := range strings.Split(raw, "&") {
		key, value, ok := strings.Cut(segment, "=")
		if !ok {
			continue
		}
		params[key] = value
	}
	return params
}

// CanonicalPayload builds the data-check string for params: the user field
// normalized, the hash field excluded, key=value lines sorted by key and
// joined with '\n'.
func CanonicalPayload(params Params) (string, error) {
	payload, _, err := canonicalize(params)
	return payload, err
}

func canonicalize(params Params) (string, *Object, error) {
	var user *Object
	keys := make([]string, 0, len(params))
	values := make(map[string]string, len(params))
	for key, value := range params {
		if key == hashKey {
			continue
		}
		if key == userKey {
			normalized, obj, err := normalizeUser(value)
			if err != nil {
				return "", nil, err
			}
			value, user = normalized, obj
		}
		keys = append(keys, key)
		values[key] = value
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, key := range keys {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(values[key])
	}
	return sb.String(), user, nil
}

// normalizeUser decodes the user field and re-encodes it as minimal JSON.
// Some webviews deliver the field already decoded, so the raw value is tried
// when the unescaped one does not parse. Telegram encodes spaces as %20, so
// '+' is kept literally.
func normalizeUser(value string) (string, *Object, error) {
	if unescaped, err := url.PathUnescape(value); err == nil {
		if obj, err := ParseObject(unescaped); err == nil {
			return obj.String(), obj, nil
		}
	}
	obj, err := ParseObject(value)
	if err != nil {
		return "", nil, ErrMalformedUserField
	}
	return obj.String(), obj, nil
}

// escapeValue percent-encodes s with spaces as %20.
func escapeValue(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// AuthDate returns the auth_date of params. The zero time and no error are
// returned when the field is absent.
func AuthDate(params Params) (time.Time, error) {
	raw, ok := params[authDateKey]
	if !ok {
		return time.Time{}, nil
	}
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || sec < 0 {
		return time.Time{}, ErrMalformedAuthDate
	}
	return time.Unix(sec, 0), nil
}
