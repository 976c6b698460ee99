package player_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TG-Note-App/game-be/internal/player"
	"github.com/TG-Note-App/game-be/internal/wallet"
)

func tokens(t *testing.T, s string) *big.Int {
	t.Helper()
	v, err := wallet.ParseAmount(s)
	require.NoError(t, err)
	return v
}

// testStore runs the Store contract against a fresh, empty store.
func testStore(t *testing.T, newStore func(t *testing.T) player.Store) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, 42)
		assert.ErrorIs(t, err, player.ErrNotFound)
	})

	t.Run("upsert then get", func(t *testing.T) {
		s := newStore(t)
		p := player.New(42)
		p.Username = "alice"
		p.Level = 3
		require.NoError(t, s.Upsert(ctx, p))
		assert.Equal(t, "0", p.OxyBalance.String())
		assert.False(t, p.UpdatedAt.IsZero())

		got, err := s.Get(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)
		assert.Equal(t, 3, got.Level)
		assert.Equal(t, player.DefaultHealth, got.Health)
		assert.Equal(t, player.DefaultEnergy, got.Energy)
		assert.Equal(t, "0", got.KoBalance.String())
	})

	t.Run("upsert keeps balances", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Upsert(ctx, player.New(7)))
		_, err := s.Credit(ctx, 7, wallet.OXY, tokens(t, "2.5"))
		require.NoError(t, err)

		update := player.New(7)
		update.Username = "renamed"
		update.Energy = 10
		update.OxyBalance = big.NewInt(999)
		require.NoError(t, s.Upsert(ctx, update))
		assert.Equal(t, tokens(t, "2.5").String(), update.OxyBalance.String())

		got, err := s.Get(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Username)
		assert.Equal(t, 10, got.Energy)
		assert.Equal(t, tokens(t, "2.5").String(), got.OxyBalance.String())
	})

	t.Run("list ordered by id", func(t *testing.T) {
		s := newStore(t)
		for _, id := range []int64{30, 10, 20} {
			require.NoError(t, s.Upsert(ctx, player.New(id)))
		}
		players, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, players, 3)
		assert.Equal(t, int64(10), players[0].ID)
		assert.Equal(t, int64(20), players[1].ID)
		assert.Equal(t, int64(30), players[2].ID)
	})

	t.Run("list empty", func(t *testing.T) {
		s := newStore(t)
		players, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, players)
	})

	t.Run("find by username", func(t *testing.T) {
		s := newStore(t)
		p := player.New(5)
		p.Username = "bob"
		require.NoError(t, s.Upsert(ctx, p))

		got, err := s.FindByUsername(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, int64(5), got.ID)

		_, err = s.FindByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, player.ErrNotFound)

		for _, id := range []int64{9, 3} {
			dup := player.New(id)
			dup.Username = "bob"
			require.NoError(t, s.Upsert(ctx, dup))
		}
		got, err = s.FindByUsername(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.ID)

		got.Username = "changed"
		again, err := s.FindByUsername(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, "bob", again.Username)
	})

	t.Run("credit and debit", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Upsert(ctx, player.New(1)))

		p, err := s.Credit(ctx, 1, wallet.KO, tokens(t, "10"))
		require.NoError(t, err)
		assert.Equal(t, tokens(t, "10").String(), p.KoBalance.String())
		assert.Equal(t, "0", p.OxyBalance.String())

		p, err = s.Debit(ctx, 1, wallet.KO, tokens(t, "3.25"))
		require.NoError(t, err)
		assert.Equal(t, tokens(t, "6.75").String(), p.KoBalance.String())

		_, err = s.Debit(ctx, 1, wallet.KO, tokens(t, "7"))
		assert.ErrorIs(t, err, player.ErrInsufficientBalance)

		_, err = s.Debit(ctx, 1, wallet.OXY, tokens(t, "0.1"))
		assert.ErrorIs(t, err, player.ErrInsufficientBalance)

		got, err := s.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, tokens(t, "6.75").String(), got.KoBalance.String())
	})

	t.Run("credit missing player", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Credit(ctx, 404, wallet.OXY, tokens(t, "1"))
		assert.ErrorIs(t, err, player.ErrNotFound)
		_, err = s.Debit(ctx, 404, wallet.OXY, tokens(t, "1"))
		assert.ErrorIs(t, err, player.ErrNotFound)
	})
}
