package wallet_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TG-Note-App/game-be/internal/wallet"
)

func TestParseToken(t *testing.T) {
	tok, err := wallet.ParseToken("oxy")
	require.NoError(t, err)
	assert.Equal(t, wallet.OXY, tok)

	tok, err = wallet.ParseToken(" Ko ")
	require.NoError(t, err)
	assert.Equal(t, wallet.KO, tok)

	_, err = wallet.ParseToken("TON")
	assert.ErrorIs(t, err, wallet.ErrUnknownToken)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1", "1000000000000000000"},
		{"1.5", "1500000000000000000"},
		{"0.000000000000000001", "1"},
		{"1e3", "1000000000000000000000"},
		{"123456789.123456789", "123456789123456789000000000"},
	}

	for _, tt := range tests {
		got, err := wallet.ParseAmount(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got.String(), tt.in)
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "0", "-1", "1/2", "0.0000000000000000001", "NaN"} {
		_, err := wallet.ParseAmount(in)
		assert.ErrorIs(t, err, wallet.ErrInvalidAmount, in)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"1", "0.000000000000000001"},
		{"1500000000000000000", "1.5"},
		{"2000000000000000000", "2"},
		{"-250000000000000000", "-0.25"},
	}

	for _, tt := range tests {
		v, ok := new(big.Int).SetString(tt.in, 10)
		require.True(t, ok)
		assert.Equal(t, tt.want, wallet.FormatAmount(v))
	}
	assert.Equal(t, "0", wallet.FormatAmount(nil))
}
