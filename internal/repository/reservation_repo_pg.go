package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/stayhub/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepository interface {
	// FindReservedDates returns every blocked night of the accommodation
	// in [checkIn, checkOut), regardless of status.
	FindReservedDates(ctx context.Context, accommodationID int64, checkIn, checkOut time.Time) ([]domain.ReservedDate, error)

	// CreatePendingDates inserts one PENDING row per night in a single
	// transaction. A unique-constraint violation means another writer got
	// there first and is surfaced as domain.ErrAlreadyReserved.
	CreatePendingDates(ctx context.Context, accommodationID int64, nights []time.Time) error

	// CreateConfirmed promotes the PENDING rows of the range to CONFIRMED
	// and inserts the reservation, all in one transaction. The promotion
	// is a hard precondition: every night must be covered by a PENDING
	// row, otherwise the transaction rolls back.
	CreateConfirmed(ctx context.Context, reservation *domain.Reservation) (int64, error)

	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)

	// Delete removes the reservation and its reserved dates in one
	// transaction.
	Delete(ctx context.Context, reservation *domain.Reservation) error

	// DeleteStalePending removes PENDING rows created before the deadline
	// and reports how many were swept.
	DeleteStalePending(ctx context.Context, before time.Time) (int64, error)
}

const uniqueViolationCode = "23505"

type PGReservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) ReservationRepository {
	return &PGReservationRepository{db: db}
}

func (r *PGReservationRepository) FindReservedDates(ctx context.Context, accommodationID int64, checkIn, checkOut time.Time) ([]domain.ReservedDate, error) {
	rows, err := r.db.Query(ctx, `SELECT id, accommodation_id, reserved_at, status, created_at FROM reserved_dates
		WHERE accommodation_id=$1 AND reserved_at >= $2 AND reserved_at < $3
		ORDER BY reserved_at`, accommodationID, domain.DayOf(checkIn), domain.DayOf(checkOut))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []domain.ReservedDate
	for rows.Next() {
		var d domain.ReservedDate
		if err := rows.Scan(&d.ID, &d.AccommodationID, &d.ReservedAt, &d.Status, &d.CreatedAt); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (r *PGReservationRepository) CreatePendingDates(ctx context.Context, accommodationID int64, nights []time.Time) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, night := range nights {
		_, err := tx.Exec(ctx, `INSERT INTO reserved_dates (accommodation_id, reserved_at, status)
			VALUES ($1, $2, $3)`, accommodationID, night, domain.ReservedDateStatusPending)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
				return domain.ErrAlreadyReserved
			}
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PGReservationRepository) CreateConfirmed(ctx context.Context, reservation *domain.Reservation) (int64, error) {
	nights := domain.Nights(reservation.CheckIn, reservation.CheckOut)
	checkInDay := domain.DayOf(reservation.CheckIn)
	checkOutDay := domain.DayOf(reservation.CheckOut)

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `SELECT status FROM reserved_dates
		WHERE accommodation_id=$1 AND reserved_at >= $2 AND reserved_at < $3
		FOR UPDATE`, reservation.AccommodationID, checkInDay, checkOutDay)
	if err != nil {
		return 0, err
	}

	var pending, confirmed int
	for rows.Next() {
		var status domain.ReservedDateStatus
		if err := rows.Scan(&status); err != nil {
			rows.Close()
			return 0, err
		}
		switch status {
		case domain.ReservedDateStatusPending:
			pending++
		case domain.ReservedDateStatusConfirmed:
			confirmed++
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	if confirmed > 0 {
		return 0, domain.ErrAlreadyReserved
	}
	if pending != nights {
		return 0, domain.ErrHoldNotFound
	}

	cmd, err := tx.Exec(ctx, `UPDATE reserved_dates SET status=$1
		WHERE accommodation_id=$2 AND reserved_at >= $3 AND reserved_at < $4 AND status=$5`,
		domain.ReservedDateStatusConfirmed, reservation.AccommodationID, checkInDay, checkOutDay, domain.ReservedDateStatusPending)
	if err != nil {
		return 0, err
	}
	if cmd.RowsAffected() != int64(nights) {
		return 0, domain.ErrHoldNotFound
	}

	if err := tx.QueryRow(ctx, `INSERT INTO reservations (accommodation_id, member_id, check_in, check_out, total_price, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		reservation.AccommodationID, reservation.MemberID, reservation.CheckIn, reservation.CheckOut, reservation.TotalPrice, reservation.Message).
		Scan(&reservation.ID, &reservation.CreatedAt, &reservation.UpdatedAt); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return reservation.ID, nil
}

func (r *PGReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	row := r.db.QueryRow(ctx, `SELECT id, accommodation_id, member_id, check_in, check_out, total_price, message, created_at, updated_at
		FROM reservations WHERE id=$1`, id)
	var res domain.Reservation
	if err := row.Scan(&res.ID, &res.AccommodationID, &res.MemberID, &res.CheckIn, &res.CheckOut, &res.TotalPrice, &res.Message, &res.CreatedAt, &res.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *PGReservationRepository) Delete(ctx context.Context, reservation *domain.Reservation) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM reserved_dates
		WHERE accommodation_id=$1 AND reserved_at >= $2 AND reserved_at < $3`,
		reservation.AccommodationID, domain.DayOf(reservation.CheckIn), domain.DayOf(reservation.CheckOut)); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM reservations WHERE id=$1`, reservation.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}

	return tx.Commit(ctx)
}

func (r *PGReservationRepository) DeleteStalePending(ctx context.Context, before time.Time) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM reserved_dates WHERE status=$1 AND created_at < $2`,
		domain.ReservedDateStatusPending, before)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

var _ ReservationRepository = (*PGReservationRepository)(nil)
