package player

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"math/big"
	"time"

	_ "github.com/lib/pq"

	"github.com/TG-Note-App/game-be/internal/wallet"
)

//go:embed schema.sql
var schema string

const playerColumns = "id, username, level, health, energy, oxy_balance, ko_balance, updated_at"

// PostgresStore keeps players in PostgreSQL.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenPostgres connects to dsn and checks the connection.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return NewPostgresStore(db), nil
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

// Migrate creates the players table when it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error { return s.db.Close() }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*Player, error) {
	var (
		p         Player
		oxy, ko   string
		updatedAt time.Time
	)
	if err := row.Scan(&p.ID, &p.Username, &p.Level, &p.Health, &p.Energy, &oxy, &ko, &updatedAt); err != nil {
		return nil, err
	}
	var ok bool
	if p.OxyBalance, ok = new(big.Int).SetString(oxy, 10); !ok {
		return nil, fmt.Errorf("player %d: bad oxy_balance %q", p.ID, oxy)
	}
	if p.KoBalance, ok = new(big.Int).SetString(ko, 10); !ok {
		return nil, fmt.Errorf("player %d: bad ko_balance %q", p.ID, ko)
	}
	p.UpdatedAt = updatedAt.UTC()
	return &p, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (*Player, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+playerColumns+" FROM players WHERE id = $1", id)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying player %d: %w", id, err)
	}
	return p, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, p *Player) error {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO players (id, username, level, health, energy, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			level = EXCLUDED.level,
			health = EXCLUDED.health,
			energy = EXCLUDED.energy,
			updated_at = EXCLUDED.updated_at
		RETURNING `+playerColumns,
		p.ID, p.Username, p.Level, p.Health, p.Energy, s.now().UTC(),
	)
	stored, err := scanPlayer(row)
	if err != nil {
		return fmt.Errorf("upserting player %d: %w", p.ID, err)
	}
	p.OxyBalance = stored.OxyBalance
	p.KoBalance = stored.KoBalance
	p.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*Player, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+playerColumns+" FROM players ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying players: %w", err)
	}
	defer func() { _ = rows.Close() }()

	players := []*Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *PostgresStore) FindByUsername(ctx context.Context, username string) (*Player, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+playerColumns+" FROM players WHERE username = $1 ORDER BY id LIMIT 1", username)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying player %q: %w", username, err)
	}
	return p, nil
}

func balanceColumn(token wallet.Token) string {
	if token == wallet.KO {
		return "ko_balance"
	}
	return "oxy_balance"
}

func (s *PostgresStore) Credit(ctx context.Context, id int64, token wallet.Token, amount *big.Int) (*Player, error) {
	col := balanceColumn(token)
	row := s.db.QueryRowContext(ctx,
		"UPDATE players SET "+col+" = "+col+" + $1, updated_at = $2 WHERE id = $3 RETURNING "+playerColumns,
		amount.String(), s.now().UTC(), id,
	)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("crediting player %d: %w", id, err)
	}
	return p, nil
}

func (s *PostgresStore) Debit(ctx context.Context, id int64, token wallet.Token, amount *big.Int) (*Player, error) {
	col := balanceColumn(token)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	err = tx.QueryRowContext(ctx, "SELECT "+col+" FROM players WHERE id = $1 FOR UPDATE", id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("locking player %d: %w", id, err)
	}
	balance, ok := new(big.Int).SetString(current, 10)
	if !ok {
		return nil, fmt.Errorf("player %d: bad %s %q", id, col, current)
	}
	if balance.Cmp(amount) < 0 {
		return nil, ErrInsufficientBalance
	}

	row := tx.QueryRowContext(ctx,
		"UPDATE players SET "+col+" = "+col+" - $1, updated_at = $2 WHERE id = $3 RETURNING "+playerColumns,
		amount.String(), s.now().UTC(), id,
	)
	p, err := scanPlayer(row)
	if err != nil {
		return nil, fmt.Errorf("debiting player %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing debit: %w", err)
	}
	return p, nil
}
