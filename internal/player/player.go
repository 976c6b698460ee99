// Package player stores per-player game state and balances.
package player

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/goccy/go-json"

	"github.com/TG-Note-App/game-be/internal/wallet"
)

const (
	DefaultUsername = "unknown"
	DefaultLevel    = 1
	DefaultHealth   = 100
	DefaultEnergy   = 100
)

var (
	ErrNotFound            = errors.New("player not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Player - represent player entity. ID is the Telegram user id.
type Player struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Level      int       `json:"level"`
	Health     int       `json:"health"`
	Energy     int       `json:"energy"`
	OxyBalance *big.Int  `json:"-"`
	KoBalance  *big.Int  `json:"-"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// New returns a player with default stats and empty balances.
func New(id int64) *Player {
	return &Player{
		ID:         id,
		Username:   DefaultUsername,
		Level:      DefaultLevel,
		Health:     DefaultHealth,
		Energy:     DefaultEnergy,
		OxyBalance: new(big.Int),
		KoBalance:  new(big.Int),
	}
}

// Balance returns the balance held in token, in base units.
func (p *Player) Balance(token wallet.Token) *big.Int {
	var b *big.Int
	if token == wallet.KO {
		b = p.KoBalance
	} else {
		b = p.OxyBalance
	}
	if b == nil {
		return new(big.Int)
	}
	return b
}

// Clone returns a deep copy of p.
func (p *Player) Clone() *Player {
	c := *p
	c.OxyBalance = new(big.Int).Set(p.Balance(wallet.OXY))
	c.KoBalance = new(big.Int).Set(p.Balance(wallet.KO))
	return &c
}

// MarshalJSON renders balances as decimal strings of base units so that
// clients never round them through a float.
func (p Player) MarshalJSON() ([]byte, error) {
	type alias Player
	return json.Marshal(struct {
		alias
		OxyBalance string `json:"oxy_balance"`
		KoBalance  string `json:"ko_balance"`
	}{
		alias:      alias(p),
		OxyBalance: p.Balance(wallet.OXY).String(),
		KoBalance:  p.Balance(wallet.KO).String(),
	})
}

// Store is the persistence collaborator for players.
//
// Upsert writes the profile fields (username, level, health, energy) and
// leaves the balances of an existing player untouched; p is updated with the
// stored balances and timestamp.
type Store interface {
	Get(ctx context.Context, id int64) (*Player, error)
	Upsert(ctx context.Context, p *Player) error
	List(ctx context.Context) ([]*Player, error)
	FindByUsername(ctx context.Context, username string) (*Player, error)
	Credit(ctx context.Context, id int64, token wallet.Token, amount *big.Int) (*Player, error)
	Debit(ctx context.Context, id int64, token wallet.Token, amount *big.Int) (*Player, error)
}
