package player

import (
	"context"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/TG-Note-App/game-be/internal/wallet"
)

// MemoryStore keeps players in process memory. Contents are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	players map[int64]*Player
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{players: make(map[int64]*Player), now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, id int64) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (s *MemoryStore) Upsert(_ context.Context, p *Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := p.Clone()
	stored.OxyBalance, stored.KoBalance = new(big.Int), new(big.Int)
	if existing, ok := s.players[p.ID]; ok {
		stored.OxyBalance.Set(existing.Balance(wallet.OXY))
		stored.KoBalance.Set(existing.Balance(wallet.KO))
	}
	stored.UpdatedAt = s.now().UTC()
	s.players[p.ID] = stored

	p.OxyBalance = new(big.Int).Set(stored.OxyBalance)
	p.KoBalance = new(big.Int).Set(stored.KoBalance)
	p.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// FindByUsername returns the player with the lowest id among those named username.
func (s *MemoryStore) FindByUsername(_ context.Context, username string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *Player
	for _, p := range s.players {
		if p.Username == username && (found == nil || p.ID < found.ID) {
			found = p
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found.Clone(), nil
}

func (s *MemoryStore) Credit(_ context.Context, id int64, token wallet.Token, amount *big.Int) (*Player, error) {
	return s.adjust(id, token, amount)
}

func (s *MemoryStore) Debit(_ context.Context, id int64, token wallet.Token, amount *big.Int) (*Player, error) {
	return s.adjust(id, token, new(big.Int).Neg(amount))
}

func (s *MemoryStore) adjust(id int64, token wallet.Token, delta *big.Int) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	next := new(big.Int).Add(p.Balance(token), delta)
	if next.Sign() < 0 {
		return nil, ErrInsufficientBalance
	}
	if token == wallet.KO {
		p.KoBalance = next
	} else {
		p.OxyBalance = next
	}
	p.UpdatedAt = s.now().UTC()
	return p.Clone(), nil
}
