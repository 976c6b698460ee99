package initdata

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by this package wraps one of them.
var (
	// ErrStructural marks input that is malformed or incomplete.
	ErrStructural = errors.New("initdata: malformed init data")
	// ErrConfiguration marks a verifier that was set up without a usable
	// credential or scheme.
	ErrConfiguration = errors.New("initdata: verifier misconfigured")
)

var (
	ErrMissingToken       = fmt.Errorf("%w: init data is empty", ErrStructural)
	ErrHashNotFound       = fmt.Errorf("%w: hash not found", ErrStructural)
	ErrMalformedUserField = fmt.Errorf("%w: user field is not a JSON object", ErrStructural)
	ErrMalformedAuthDate  = fmt.Errorf("%w: auth_date is not a unix timestamp", ErrStructural)

	ErrMissingCredential = fmt.Errorf("%w: bot token is not set", ErrConfiguration)
	ErrMissingScheme     = fmt.Errorf("%w: secret scheme is not set", ErrConfiguration)
	ErrUnknownScheme     = fmt.Errorf("%w: unknown secret scheme", ErrConfiguration)
)
