// Package mysql is the relational alternative to the jsonfile store. It
// implements the same whole-collection ports, so swapping STORE_DRIVER
// changes durability characteristics without touching the services.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"stayhub/internal/adapters/observability"
	"stayhub/internal/domain"
)

// Migrate applies the schema. Idempotent; called once at startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("mysql: migrate: %w", err)
		}
	}
	return nil
}

type HotelRepo struct{ db *sql.DB }

func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{db: db} }

func (r *HotelRepo) ReadAll(ctx context.Context) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, readHotelsSQL)
	if err != nil {
		observability.ObserveStore("mysql", "read", err)
		return nil, err
	}
	defer rows.Close()

	out := []domain.Hotel{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			observability.ObserveStore("mysql", "read", err)
			return nil, err
		}
		var h domain.Hotel
		if err := json.Unmarshal(doc, &h); err != nil {
			observability.ObserveStore("mysql", "read", err)
			return nil, fmt.Errorf("mysql: decode hotel: %w", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		observability.ObserveStore("mysql", "read", err)
		return nil, err
	}
	observability.ObserveStore("mysql", "read", nil)
	return out, nil
}

func (r *HotelRepo) WriteAll(ctx context.Context, hotels []domain.Hotel) (err error) {
	defer func() { observability.ObserveStore("mysql", "write", err) }()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM hotels`); err != nil {
		return err
	}
	for i, h := range hotels {
		var doc []byte
		doc, err = json.Marshal(h)
		if err != nil {
			return fmt.Errorf("mysql: encode hotel %s: %w", h.ID, err)
		}
		if _, err = tx.ExecContext(ctx, insertHotelSQL,
			h.ID, doc, string(h.Status), h.City, h.CreatedBy, h.CreatedAt, h.UpdatedAt, i,
		); err != nil {
			return err
		}
	}
	err = tx.Commit()
	return err
}

type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) ReadAll(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, readUsersSQL)
	if err != nil {
		observability.ObserveStore("mysql", "read", err)
		return nil, err
	}
	defer rows.Close()

	out := []domain.User{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			observability.ObserveStore("mysql", "read", err)
			return nil, err
		}
		var u domain.User
		if err := json.Unmarshal(doc, &u); err != nil {
			observability.ObserveStore("mysql", "read", err)
			return nil, fmt.Errorf("mysql: decode user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		observability.ObserveStore("mysql", "read", err)
		return nil, err
	}
	observability.ObserveStore("mysql", "read", nil)
	return out, nil
}

func (r *UserRepo) WriteAll(ctx context.Context, users []domain.User) (err error) {
	defer func() { observability.ObserveStore("mysql", "write", err) }()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return err
	}
	for i, u := range users {
		var doc []byte
		doc, err = json.Marshal(u)
		if err != nil {
			return fmt.Errorf("mysql: encode user %s: %w", u.ID, err)
		}
		if _, err = tx.ExecContext(ctx, insertUserSQL, u.ID, doc, u.Username, i); err != nil {
			return err
		}
	}
	err = tx.Commit()
	return err
}
