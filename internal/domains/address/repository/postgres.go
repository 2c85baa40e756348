package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"opticsmarket-backend/internal/domains/address/model"
	"opticsmarket-backend/pkg/database"
)

type postgresAddressRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAddressRepository(pool *pgxpool.Pool) AddressRepository {
	return &postgresAddressRepository{
		pool: pool,
	}
}

const addressColumns = `
	id, user_id, recipient_name, phone, line1, line2, city, postal_code,
	country, is_default, created_at, updated_at
`

func scanAddress(row pgx.Row) (*model.Address, error) {
	address := &model.Address{}
	err := row.Scan(
		&address.ID,
		&address.UserID,
		&address.RecipientName,
		&address.Phone,
		&address.Line1,
		&address.Line2,
		&address.City,
		&address.PostalCode,
		&address.Country,
		&address.IsDefault,
		&address.CreatedAt,
		&address.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return address, nil
}

func (r *postgresAddressRepository) Create(ctx context.Context, address *model.Address) error {
	query := `
		INSERT INTO addresses (
			id, user_id, recipient_name, phone, line1, line2, city, postal_code, country, is_default
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		address.ID,
		address.UserID,
		address.RecipientName,
		address.Phone,
		address.Line1,
		address.Line2,
		address.City,
		address.PostalCode,
		address.Country,
		address.IsDefault,
	).Scan(&address.CreatedAt, &address.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}

	return nil
}

func (r *postgresAddressRepository) GetByID(ctx context.Context, addressID uuid.UUID) (*model.Address, error) {
	query := fmt.Sprintf(`SELECT %s FROM addresses WHERE id = $1`, addressColumns)

	address, err := scanAddress(r.pool.QueryRow(ctx, query, addressID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to get address: %w", err)
	}

	return address, nil
}

func (r *postgresAddressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC
	`, addressColumns)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	var addresses []model.Address
	for rows.Next() {
		address, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, *address)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate addresses: %w", err)
	}

	return addresses, nil
}

func (r *postgresAddressRepository) Update(ctx context.Context, address *model.Address) error {
	query := `
		UPDATE addresses
		SET recipient_name = $1, phone = $2, line1 = $3, line2 = $4,
		    city = $5, postal_code = $6, country = $7, updated_at = NOW()
		WHERE id = $8 AND user_id = $9
	`

	tag, err := r.pool.Exec(ctx, query,
		address.RecipientName,
		address.Phone,
		address.Line1,
		address.Line2,
		address.City,
		address.PostalCode,
		address.Country,
		address.ID,
		address.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAddressNotFound
	}

	return nil
}

func (r *postgresAddressRepository) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	query := `DELETE FROM addresses WHERE id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, query, addressID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAddressNotFound
	}

	return nil
}

func (r *postgresAddressRepository) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		clearQuery := `UPDATE addresses SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default = TRUE`
		if _, err := tx.Exec(ctx, clearQuery, userID); err != nil {
			return fmt.Errorf("failed to clear default address: %w", err)
		}

		setQuery := `UPDATE addresses SET is_default = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2`
		tag, err := tx.Exec(ctx, setQuery, addressID, userID)
		if err != nil {
			return fmt.Errorf("failed to set default address: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrAddressNotFound
		}

		return nil
	})
}
