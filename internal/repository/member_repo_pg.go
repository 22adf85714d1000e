package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/stayhub/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MemberRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Member, error)
}

type PGMemberRepository struct {
	db *pgxpool.Pool
}

func NewMemberRepository(db *pgxpool.Pool) MemberRepository {
	return &PGMemberRepository{db: db}
}

func (r *PGMemberRepository) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	row := r.db.QueryRow(ctx, `SELECT id, email, nickname, created_at FROM members WHERE id=$1`, id)
	var m domain.Member
	if err := row.Scan(&m.ID, &m.Email, &m.Nickname, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

var _ MemberRepository = (*PGMemberRepository)(nil)
