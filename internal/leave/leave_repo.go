package leave

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByEmployee(ctx context.Context, employeeID string, offset, limit int) ([]LeaveRequest, int64, error)
	FindByManager(ctx context.Context, managerID string, offset, limit int) ([]LeaveRequest, int64, error)
	MarkDecided(ctx context.Context, id, status string) (bool, error)
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

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string, offset, limit int) ([]LeaveRequest, int64, error) {
	return r.findPage(ctx, "employee_id = ?", employeeID, offset, limit)
}

func (r *repository) FindByManager(ctx context.Context, managerID string, offset, limit int) ([]LeaveRequest, int64, error) {
	return r.findPage(ctx, "manager_id = ?", managerID, offset, limit)
}

func (r *repository) findPage(ctx context.Context, cond, arg string, offset, limit int) ([]LeaveRequest, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where(cond, arg).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []LeaveRequest
	err := r.db.WithContext(ctx).
		Where(cond, arg).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

// MarkDecided flips the status with a compare-and-swap on the pending state.
// When two decisions race on the same request only the first one sees a row
// affected; the loser gets false and must report a conflict.
func (r *repository) MarkDecided(ctx context.Context, id, status string) (bool, error) {
	query := `
UPDATE leave_requests
SET
	status = $2,
	updated_at = NOW()
WHERE id = $1
	AND status = $3
`

	res, err := r.execer().ExecContext(ctx, query, id, status, StatusPending)
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
