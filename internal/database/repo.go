package database

import (
	"context"
	"database/sql"
	"errors"

	"papertrade/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Repo struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func New(db *sqlx.DB, log *logrus.Logger) *Repo {
	return &Repo{db: db, log: log}
}

func (r *Repo) CreateUser(ctx context.Context, username, passwordHash string, startingCash decimal.Decimal) (models.User, error) {
	var u models.User
	q := `INSERT INTO users (id, username, password_hash, cash, created_at)
	      VALUES (gen_random_uuid(), $1, $2, $3::numeric, now())
	      RETURNING id, username, password_hash, cash, created_at`
	err := r.db.GetContext(ctx, &u, q, username, passwordHash, startingCash.StringFixed(4))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return models.User{}, models.ErrUsernameTaken
		}
		return models.User{}, err
	}
	return u, nil
}

func (r *Repo) GetUserByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, `SELECT id, username, password_hash, cash, created_at FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	return u, err
}

func (r *Repo) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, `SELECT id, username, password_hash, cash, created_at FROM users WHERE username = $1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	return u, err
}

func (r *Repo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
	return exists, err
}

// ExecuteTrade applies one buy (quantity > 0) or sell (quantity < 0)
// atomically: the cash mutation and the ledger append commit together
// or not at all. The user's row is locked FOR UPDATE for the duration
// of the transaction so concurrent trades against the same user are
// serialized; the affordability and share-availability checks run
// under that lock and cannot race. Returns the updated cash balance.
func (r *Repo) ExecuteTrade(ctx context.Context, userID, symbol string, quantity int64, price decimal.Decimal) (decimal.Decimal, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return decimal.Zero, err
	}
	defer tx.Rollback()

	var cash decimal.Decimal
	if err := tx.QueryRowContext(ctx, `SELECT cash FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&cash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, models.ErrUserNotFound
		}
		return decimal.Zero, err
	}

	amount := price.Mul(decimal.NewFromInt(quantity))
	if quantity > 0 {
		if cash.LessThan(amount) {
			return decimal.Zero, models.ErrInsufficientFunds
		}
	} else {
		var held int64
		err := tx.QueryRowContext(ctx, `SELECT COALESCE(SUM(quantity), 0) FROM trades WHERE user_id = $1 AND symbol = $2`, userID, symbol).Scan(&held)
		if err != nil {
			return decimal.Zero, err
		}
		if held < -quantity {
			return decimal.Zero, models.ErrInsufficientShares
		}
	}

	newCash := cash.Sub(amount)
	if _, err := tx.ExecContext(ctx, `UPDATE users SET cash = $1::numeric WHERE id = $2`, newCash.StringFixed(4), userID); err != nil {
		return decimal.Zero, err
	}

	q := `INSERT INTO trades (id, user_id, symbol, quantity, price, executed_at)
	      VALUES (gen_random_uuid(), $1, $2, $3, $4::numeric, now())`
	if _, err := tx.ExecContext(ctx, q, userID, symbol, quantity, price.StringFixed(4)); err != nil {
		return decimal.Zero, err
	}

	if err := tx.Commit(); err != nil {
		return decimal.Zero, err
	}
	return newCash, nil
}

// HoldingsBySymbol derives net positions by summing the ledger.
// Symbols whose net quantity is zero are omitted: a closed position
// carries no actionable information on the portfolio page.
func (r *Repo) HoldingsBySymbol(ctx context.Context, userID string) ([]models.Holding, error) {
	q := `SELECT symbol,
	             SUM(quantity) AS quantity,
	             (ARRAY_AGG(price ORDER BY executed_at DESC))[1] AS last_price
	      FROM trades
	      WHERE user_id = $1
	      GROUP BY symbol
	      HAVING SUM(quantity) <> 0
	      ORDER BY symbol`
	rows, err := r.db.QueryxContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []models.Holding{}
	for rows.Next() {
		var h models.Holding
		if err := rows.StructScan(&h); err != nil {
			r.log.Warnf("scan holding failed: %v", err)
			continue
		}
		res = append(res, h)
	}
	return res, rows.Err()
}

func (r *Repo) HoldingFor(ctx context.Context, userID, symbol string) (int64, error) {
	var held int64
	err := r.db.GetContext(ctx, &held, `SELECT COALESCE(SUM(quantity), 0) FROM trades WHERE user_id = $1 AND symbol = $2`, userID, symbol)
	return held, err
}

func (r *Repo) ListTrades(ctx context.Context, userID string) ([]models.Trade, error) {
	q := `SELECT id, user_id, symbol, quantity, price, executed_at FROM trades WHERE user_id = $1 ORDER BY executed_at ASC, id ASC`
	rows, err := r.db.QueryxContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []models.Trade{}
	for rows.Next() {
		var t models.Trade
		if err := rows.StructScan(&t); err != nil {
			r.log.Warnf("scan trade failed: %v", err)
			continue
		}
		res = append(res, t)
	}
	return res, rows.Err()
}
