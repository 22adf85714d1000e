package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/stayhub/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccommodationRepository interface {
	List(ctx context.Context) ([]domain.Accommodation, error)
	GetByID(ctx context.Context, id int64) (*domain.Accommodation, error)
}

type PGAccommodationRepository struct {
	db *pgxpool.Pool
}

func NewAccommodationRepository(db *pgxpool.Pool) AccommodationRepository {
	return &PGAccommodationRepository{db: db}
}

func (r *PGAccommodationRepository) List(ctx context.Context) ([]domain.Accommodation, error) {
	rows, err := r.db.Query(ctx, `SELECT id, host_id, name, description, base_price, created_at, updated_at FROM accommodations ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accommodations := make([]domain.Accommodation, 0)
	for rows.Next() {
		var a domain.Accommodation
		if err := rows.Scan(&a.ID, &a.HostID, &a.Name, &a.Description, &a.BasePrice, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accommodations = append(accommodations, a)
	}
	return accommodations, rows.Err()
}

func (r *PGAccommodationRepository) GetByID(ctx context.Context, id int64) (*domain.Accommodation, error) {
	row := r.db.QueryRow(ctx, `SELECT id, host_id, name, description, base_price, created_at, updated_at FROM accommodations WHERE id=$1`, id)
	var a domain.Accommodation
	if err := row.Scan(&a.ID, &a.HostID, &a.Name, &a.Description, &a.BasePrice, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccommodationNotFound
		}
		return nil, err
	}
	return &a, nil
}

var _ AccommodationRepository = (*PGAccommodationRepository)(nil)
