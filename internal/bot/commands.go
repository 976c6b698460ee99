package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/TG-Note-App/game-be/internal/player"
	"github.com/TG-Note-App/game-be/internal/wallet"
)

const helpText = `Available commands:
/balance <username> - Get player balance
/credit <player_id> <token> <amount> - Credit player (admin only)
/debit <player_id> <token> <amount> - Debit player (admin only)`

// Reply is the answer to one command. GameURL, when set, is attached as a
// button that opens the game.
type Reply struct {
	Text    string
	GameURL string
}

// Commands implements the chat commands independently of the Telegram transport.
type Commands struct {
	store   player.Store
	admins  map[int64]bool
	gameURL string
}

func NewCommands(store player.Store, admins []int64, gameURL string) *Commands {
	allowed := make(map[int64]bool, len(admins))
	for _, id := range admins {
		allowed[id] = true
	}
	return &Commands{store: store, admins: allowed, gameURL: gameURL}
}

// Handle runs command (without the leading slash) sent by user fromID.
func (c *Commands) Handle(ctx context.Context, fromID int64, command, args string) Reply {
	fields := strings.Fields(args)
	switch command {
	case "start":
		return Reply{Text: "Welcome! Click the button below to open the game!", GameURL: c.gameURL}
	case "help":
		return Reply{Text: helpText}
	case "balance":
		return c.balance(ctx, fields)
	case "credit":
		return c.adjust(ctx, fromID, fields, "credit")
	case "debit":
		return c.adjust(ctx, fromID, fields, "debit")
	default:
		return Reply{Text: "Unknown command. Try /help"}
	}
}

func (c *Commands) balance(ctx context.Context, args []string) Reply {
	if len(args) != 1 {
		return Reply{Text: "Usage: /balance <username>"}
	}
	p, err := c.store.FindByUsername(ctx, args[0])
	if errors.Is(err, player.ErrNotFound) {
		return Reply{Text: "Player not found."}
	}
	if err != nil {
		return Reply{Text: "Error: " + err.Error()}
	}
	return Reply{Text: fmt.Sprintf("Balance for %s:\nOXY: %s\nKO: %s",
		p.Username,
		wallet.FormatAmount(p.Balance(wallet.OXY)),
		wallet.FormatAmount(p.Balance(wallet.KO)),
	)}
}

func (c *Commands) adjust(ctx context.Context, fromID int64, args []string, op string) Reply {
	if !c.admins[fromID] {
		return Reply{Text: "You are not authorized to use this command."}
	}
	if len(args) != 3 {
		return Reply{Text: fmt.Sprintf("Usage: /%s <player_id> <token> <amount>", op)}
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return Reply{Text: "Invalid player_id or amount"}
	}
	amount, err := wallet.ParseAmount(args[2])
	if err != nil {
		return Reply{Text: "Invalid player_id or amount"}
	}
	token, err := wallet.ParseToken(args[1])
	if err != nil {
		return Reply{Text: "Token must be OXY or KO"}
	}

	if op == "credit" {
		_, err = c.store.Credit(ctx, id, token, amount)
	} else {
		_, err = c.store.Debit(ctx, id, token, amount)
	}
	switch {
	case errors.Is(err, player.ErrNotFound):
		return Reply{Text: "Player not found."}
	case errors.Is(err, player.ErrInsufficientBalance):
		return Reply{Text: "Insufficient balance"}
	case err != nil:
		return Reply{Text: "Error: " + err.Error()}
	}
	return Reply{Text: fmt.Sprintf("Player %d %sed with %s %s", id, op, args[2], token)}
}
