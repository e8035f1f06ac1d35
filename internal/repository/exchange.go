package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/skillswap/skillswap-go/internal/model"
)

var (
	ErrExchangeNotFound = errors.New("exchange request not found")
	// ErrStatusConflict is returned when a compare-and-swap status
	// update finds the record no longer in the expected state.
	ErrStatusConflict = errors.New("exchange request status changed concurrently")
)

// ExchangeRecord is an exchange request joined with the title of the
// skill it targets, for notification texts and API responses.
type ExchangeRecord struct {
	model.ExchangeRequest
	SkillTitle string
}

// ExchangeRepository handles exchange request persistence operations.
type ExchangeRepository struct {
	db *sql.DB
}

// NewExchangeRepository creates a new ExchangeRepository.
func NewExchangeRepository(db *sql.DB) *ExchangeRepository {
	return &ExchangeRepository{db: db}
}

// Create inserts a new exchange request in the pending state and sets
// the generated ID and timestamps on the struct.
func (r *ExchangeRepository) Create(ctx context.Context, req *model.ExchangeRequest) error {
	now := time.Now().UTC().Truncate(time.Second)
	req.Status = model.StatusPending
	req.CreatedAt = now
	req.UpdatedAt = now

	query := `INSERT INTO skill_exchange_requests
	          (skill_id, requester_id, skill_owner_id, message, status, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		req.SkillID, req.RequesterID, req.SkillOwnerID, req.Message, req.Status, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	req.ID = id
	return nil
}

// GetByID retrieves an exchange request joined with its skill title.
func (r *ExchangeRepository) GetByID(ctx context.Context, id int64) (*ExchangeRecord, error) {
	query := `SELECT r.id, r.skill_id, r.requester_id, r.skill_owner_id, r.message, r.status,
	                 r.created_at, r.updated_at, s.title
	          FROM skill_exchange_requests r
	          JOIN skills s ON s.id = r.skill_id
	          WHERE r.id = ?`

	rec := &ExchangeRecord{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.SkillID, &rec.RequesterID, &rec.SkillOwnerID,
		&rec.Message, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt, &rec.SkillTitle,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrExchangeNotFound
		}
		return nil, err
	}

	return rec, nil
}

// ListForUser returns exchange requests in which userID participates as
// requester or skill owner, newest first.
func (r *ExchangeRepository) ListForUser(ctx context.Context, userID int64, skip, limit int) ([]ExchangeRecord, error) {
	query := `SELECT r.id, r.skill_id, r.requester_id, r.skill_owner_id, r.message, r.status,
	                 r.created_at, r.updated_at, s.title
	          FROM skill_exchange_requests r
	          JOIN skills s ON s.id = r.skill_id
	          WHERE r.requester_id = ? OR r.skill_owner_id = ?
	          ORDER BY r.created_at DESC, r.id DESC
	          LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, userID, userID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ExchangeRecord
	for rows.Next() {
		var rec ExchangeRecord
		if err := rows.Scan(
			&rec.ID, &rec.SkillID, &rec.RequesterID, &rec.SkillOwnerID,
			&rec.Message, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt, &rec.SkillTitle,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// UpdateStatus moves a request from one status to another with a single
// compare-and-swap statement. If the record is no longer in the
// expected status (a concurrent transition won the race, or the caller
// re-applied a one-shot edge) it returns ErrStatusConflict and the row
// is untouched.
func (r *ExchangeRepository) UpdateStatus(ctx context.Context, id int64, from, to model.ExchangeStatus) (time.Time, error) {
	now := time.Now().UTC().Truncate(time.Second)

	query := `UPDATE skill_exchange_requests SET status = ?, updated_at = ? WHERE id = ? AND status = ?`

	result, err := r.db.ExecContext(ctx, query, to, now, id, from)
	if err != nil {
		return time.Time{}, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return time.Time{}, err
	}
	if n == 0 {
		return time.Time{}, ErrStatusConflict
	}

	return now, nil
}
