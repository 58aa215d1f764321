package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	FindByEmployeeID(ctx context.Context, employeeID string) (*Employee, error)
	SettleCredit(ctx context.Context, employeeID, leaveType string, numDays int) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	// Credits are persisted through the association in the same insert.
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindByEmployeeID(ctx context.Context, employeeID string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Preload("Credits").
		First(&e, "employee_id = ?", employeeID).Error
	return &e, err
}

// SettleCredit deducts approved days in a single guarded UPDATE. The
// available >= numDays predicate is the compare-and-swap that keeps the
// balance from going negative under concurrent approvals; zero rows affected
// means the balance no longer covers the request.
func (r *repository) SettleCredit(ctx context.Context, employeeID, leaveType string, numDays int) (bool, error) {
	query := `
UPDATE leave_credits
SET
	used = used + $3,
	available = available - $3,
	updated_at = NOW()
WHERE employee_id = $1
	AND leave_type = $2
	AND available >= $3
`

	res, err := r.execer().ExecContext(ctx, query, employeeID, leaveType, numDays)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return failingExecer{err: err}
	}
	return sqlDB
}

type failingExecer struct{ err error }

func (f failingExecer) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, f.err
}
