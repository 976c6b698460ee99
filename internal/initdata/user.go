package initdata

import (
	"fmt"

	"github.com/goccy/go-json"
)

// User - Telegram user as sent in the init data user field
type User struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	IsPremium    bool   `json:"is_premium,omitempty"`
	PhotoURL     string `json:"photo_url,omitempty"`
}

// Identity decodes the verified user object. It returns nil when the result
// is not valid or carried no user field.
func (r Result) Identity() (*User, error) {
	if !r.Valid || r.User == nil {
		return nil, nil
	}
	var u User
	if err := json.Unmarshal([]byte(r.User.String()), &u); err != nil {
		return nil, fmt.Errorf("decoding user: %w", err)
	}
	return &u, nil
}
