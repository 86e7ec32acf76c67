package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/triage"
)

// ErrNotFound is returned when a complaint id is unknown.
var ErrNotFound = errors.New("complaint not found")

// ComplaintRepository encapsulates complaint persistence together with
// the department aggregates it must keep consistent. A complaint insert
// and its department total bump form a single logical unit, as does a
// resolve and its resolved-count bump.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	ListAll(ctx context.Context) ([]domain.Complaint, error)
	UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) error
	ListHistory(ctx context.Context, complaintID string) ([]domain.StatusHistoryEntry, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates the postgres-backed repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insert = `
        INSERT INTO complaints (id, description, image_path, category, priority, location, status, submitted_at, anonymous)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	if _, err := tx.Exec(ctx, insert,
		complaint.ID,
		complaint.Description,
		complaint.ImagePath,
		complaint.Category,
		complaint.Priority,
		complaint.Location,
		complaint.Status,
		complaint.SubmittedAt,
		complaint.Anonymous,
	); err != nil {
		return err
	}

	const bump = `
        UPDATE departments SET total_complaints = total_complaints + 1
        WHERE name = $1`
	if _, err := tx.Exec(ctx, bump, triage.RouteDepartment(complaint.Category)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	const query = `
        SELECT id, description, image_path, category, priority, location, status, submitted_at, resolved_at, anonymous
        FROM complaints WHERE id=$1`
	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&complaint.ID,
		&complaint.Description,
		&complaint.ImagePath,
		&complaint.Category,
		&complaint.Priority,
		&complaint.Location,
		&complaint.Status,
		&complaint.SubmittedAt,
		&complaint.ResolvedAt,
		&complaint.Anonymous,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) ListAll(ctx context.Context) ([]domain.Complaint, error) {
	const query = `
        SELECT id, description, image_path, category, priority, location, status, submitted_at, resolved_at, anonymous
        FROM complaints ORDER BY submitted_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(
			&complaint.ID,
			&complaint.Description,
			&complaint.ImagePath,
			&complaint.Category,
			&complaint.Priority,
			&complaint.Location,
			&complaint.Status,
			&complaint.SubmittedAt,
			&complaint.ResolvedAt,
			&complaint.Anonymous,
		); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}

// UpdateStatus applies a status transition. The row is locked for the
// duration of the transaction so concurrent resolves cannot double-count.
// Resolving an already-resolved complaint is a success no-op; resolved_at,
// once set, is never cleared by later transitions.
func (r *complaintRepository) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var current domain.ComplaintStatus
	var category string
	const lock = `SELECT status, category FROM complaints WHERE id=$1 FOR UPDATE`
	if err := tx.QueryRow(ctx, lock, id).Scan(&current, &category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	now := time.Now()
	switch {
	case status == domain.ComplaintStatusResolved && current == domain.ComplaintStatusResolved:
		return tx.Commit(ctx)
	case status == domain.ComplaintStatusResolved:
		const resolve = `UPDATE complaints SET status=$1, resolved_at=$2 WHERE id=$3`
		if _, err := tx.Exec(ctx, resolve, status, now, id); err != nil {
			return err
		}
		const bump = `
            UPDATE departments SET complaints_resolved = complaints_resolved + 1
            WHERE name = $1`
		if _, err := tx.Exec(ctx, bump, triage.RouteDepartment(category)); err != nil {
			return err
		}
	default:
		const update = `UPDATE complaints SET status=$1 WHERE id=$2`
		if _, err := tx.Exec(ctx, update, status, id); err != nil {
			return err
		}
	}

	const record = `
        INSERT INTO complaint_status_history (complaint_id, old_status, new_status, changed_at)
        VALUES ($1,$2,$3,$4)`
	if _, err := tx.Exec(ctx, record, id, current, status, now); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *complaintRepository) ListHistory(ctx context.Context, complaintID string) ([]domain.StatusHistoryEntry, error) {
	const query = `
        SELECT id, complaint_id, old_status, new_status, changed_at
        FROM complaint_status_history WHERE complaint_id=$1 ORDER BY changed_at ASC`
	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StatusHistoryEntry
	for rows.Next() {
		var entry domain.StatusHistoryEntry
		if err := rows.Scan(&entry.ID, &entry.ComplaintID, &entry.OldStatus, &entry.NewStatus, &entry.ChangedAt); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
