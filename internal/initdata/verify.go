package initdata

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Result - outcome of a verification. A signature mismatch is a normal
// result (Valid false), not an error.
type Result struct {
	Valid bool
	// User is the normalized user object. Set only when Valid.
	User *Object
	// Params holds the parsed fields, hash excluded.
	Params Params
}

// Verify checks the hash of rawToken against the signature computed with
// botToken under scheme.
//
// Errors wrap ErrStructural for broken input and ErrConfiguration for a
// missing credential or scheme.
func Verify(rawToken, botToken string, scheme Scheme) (Result, error) {
	if rawToken == "" {
		return Result{}, ErrMissingToken
	}
	if botToken == "" {
		return Result{}, ErrMissingCredential
	}
	if err := scheme.validate(); err != nil {
		return Result{}, err
	}
	return verify(rawToken, func() []byte { return deriveSecret(botToken, scheme) })
}

// Verifier verifies init data for one bot token and scheme. The secret is
// derived once. A Verifier is safe for concurrent use.
type Verifier struct {
	scheme Scheme
	secret []byte
}

// NewVerifier returns a Verifier bound to botToken and scheme.
func NewVerifier(botToken string, scheme Scheme) (*Verifier, error) {
	secret, err := DeriveSecret(botToken, scheme)
	if err != nil {
		return nil, err
	}
	return &Verifier{scheme: scheme, secret: secret}, nil
}

// Scheme returns the secret scheme the verifier was built with.
func (v *Verifier) Scheme() Scheme { return v.scheme }

// Verify is the cached-secret form of the package level Verify.
func (v *Verifier) Verify(rawToken string) (Result, error) {
	if rawToken == "" {
		return Result{}, ErrMissingToken
	}
	return verify(rawToken, func() []byte { return v.secret })
}

func verify(rawToken string, secret func() []byte) (Result, error) {
	params := Parse(rawToken)
	claimed, ok := params[hashKey]
	if !ok {
		return Result{}, ErrHashNotFound
	}
	delete(params, hashKey)

	payload, user, err := canonicalize(params)
	if err != nil {
		return Result{}, err
	}
	if user != nil {
		params[userKey] = user.String()
	}

	expected := sign(secret(), payload)
	// hmac.Equal does not short-circuit on the first differing byte.
	if !hmac.Equal([]byte(expected), []byte(claimed)) {
		return Result{Params: params}, nil
	}
	return Result{Valid: true, User: user, Params: params}, nil
}

func sign(secret []byte, payload string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
