package initdata

import (
	"errors"

	"github.com/tidwall/gjson"
)

// Kind - JSON value kind
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

const maxDepth = 64

// Value is a parsed JSON value. Scalars keep their literal text so that
// re-encoding never changes number formatting or string escapes.
type Value struct {
	Kind   Kind
	Items  []Value
	Object *Object

	literal string
	str     string
}

// Literal returns the source text of a scalar value.
func (v Value) Literal() string { return v.literal }

// Str returns the decoded string for KindString values.
func (v Value) Str() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.str, true
}

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value Value

	rawKey string
}

// Object is a JSON object with its members in source order.
type Object struct {
	members []Member
}

// Len returns the number of members.
func (o *Object) Len() int { return len(o.members) }

// Members returns the members in source order.
func (o *Object) Members() []Member { return o.members }

// Keys returns member keys in source order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.members))
	for _, m := range o.members {
		keys = append(keys, m.Key)
	}
	return keys
}

// Get returns the value for key. With duplicate keys the last one wins.
func (o *Object) Get(key string) (Value, bool) {
	for i := len(o.members) - 1; i >= 0; i-- {
		if o.members[i].Key == key {
			return o.members[i].Value, true
		}
	}
	return Value{}, false
}

// String renders the object as minimal JSON: no insignificant whitespace,
// members in source order.
func (o *Object) String() string {
	return string(appendObject(nil, o))
}

// MarshalJSON implements json.Marshaler.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	return appendObject(nil, o), nil
}

func appendObject(buf []byte, o *Object) []byte {
	buf = append(buf, '{')
	for i, m := range o.members {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, m.rawKey...)
		buf = append(buf, ':')
		buf = appendValue(buf, m.Value)
	}
	return append(buf, '}')
}

func appendValue(buf []byte, v Value) []byte {
	switch v.Kind {
	case KindArray:
		buf = append(buf, '[')
		for i, item := range v.Items {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = appendValue(buf, item)
		}
		return append(buf, ']')
	case KindObject:
		return appendObject(buf, v.Object)
	default:
		return append(buf, v.literal...)
	}
}

var (
	errInvalidJSON = errors.New("json: invalid document")
	errNotObject   = errors.New("json: top-level value is not an object")
	errTooDeep     = errors.New("json: nesting too deep")
)

// ParseObject parses s as a single JSON object.
func ParseObject(s string) (*Object, error) {
	if !gjson.Valid(s) {
		return nil, errInvalidJSON
	}
	res := gjson.Parse(s)
	if !res.IsObject() {
		return nil, errNotObject
	}
	v, err := fromResult(res, 0)
	if err != nil {
		return nil, err
	}
	return v.Object, nil
}

// fromResult converts a validated gjson result, keeping member order and the
// raw text of keys and scalars.
func fromResult(r gjson.Result, depth int) (Value, error) {
	if depth > maxDepth {
		return Value{}, errTooDeep
	}

	switch {
	case r.IsObject():
		obj := &Object{}
		var err error
		r.ForEach(func(key, value gjson.Result) bool {
			var v Value
			if v, err = fromResult(value, depth+1); err != nil {
				return false
			}
			obj.members = append(obj.members, Member{Key: key.Str, Value: v, rawKey: key.Raw})
			return true
		})
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindObject, Object: obj}, nil
	case r.IsArray():
		items := []Value{}
		var err error
		r.ForEach(func(_, value gjson.Result) bool {
			var v Value
			if v, err = fromResult(value, depth+1); err != nil {
				return false
			}
			items = append(items, v)
			return true
		})
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindArray, Items: items}, nil
	}

	switch r.Type {
	case gjson.String:
		return Value{Kind: KindString, literal: r.Raw, str: r.Str}, nil
	case gjson.Number:
		return Value{Kind: KindNumber, literal: r.Raw}, nil
	case gjson.True, gjson.False:
		return Value{Kind: KindBool, literal: r.Raw}, nil
	default:
		return Value{Kind: KindNull, literal: "null"}, nil
	}
}
