package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jkaz1007/lms-sys/internal/employee"
	employeeerrors "github.com/jkaz1007/lms-sys/internal/employee/errors"
	"github.com/jkaz1007/lms-sys/internal/events"
	leaveerrors "github.com/jkaz1007/lms-sys/internal/leave/errors"
	"github.com/jkaz1007/lms-sys/internal/messaging/kafka"
	"github.com/jkaz1007/lms-sys/internal/policy"
	"github.com/jkaz1007/lms-sys/internal/shared/contextutil"
	"github.com/jkaz1007/lms-sys/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// dateLayout is DD/MM/YYYY, the wire format for all request dates.
const dateLayout = "02/01/2006"

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actor policy.Actor, req SubmitLeaveRequest) (LeaveResponse, error)
	Decide(ctx context.Context, actor policy.Actor, id, decision string) (LeaveResponse, error)
	ListMine(ctx context.Context, actor policy.Actor, page, pageSize int) ([]LeaveResponse, int64, error)
	ListToReview(ctx context.Context, actor policy.Actor, page, pageSize int) ([]LeaveResponse, int64, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	employeeRepo employee.Repository
	counter      counter.Repository
	outbox       kafka.OutboxRepository
	logger       *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		employeeRepo: employeeRepo,
		counter:      counterRepo,
		outbox:       outboxRepo,
		logger:       l,
	}
}

// Submit validates the requested span against the caller's ledger and files
// the request as ACTION_PENDING. The ledger is not touched here; balance is
// only deducted at approval.
func (s *service) Submit(ctx context.Context, actor policy.Actor, req SubmitLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("employee_id", actor.EmployeeID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}

	numDays := daySpan(startDate, endDate)
	if numDays <= 0 {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	// The submitter is always the subject; identity comes from the token,
	// never from the request body.
	empl, err := s.employeeRepo.FindByEmployeeID(ctx, actor.EmployeeID)
	if err != nil {
		s.logger.Error("submit leave employee lookup failed", zap.Error(err))
		return LeaveResponse{}, employee.MapRepositoryError(err)
	}

	credit := empl.Credit(req.LeaveType)
	if credit == nil {
		return LeaveResponse{}, employeeerrors.ErrNoCreditForLeaveType
	}
	if !credit.CanReserve(numDays) {
		s.logger.Warn("submit leave insufficient balance",
			zap.String("employee_id", actor.EmployeeID),
			zap.String("leave_type", req.LeaveType),
			zap.Int("num_days", numDays),
			zap.Int("available", credit.Available),
		)
		return LeaveResponse{}, employeeerrors.ErrInsufficientBalance
	}

	seq, err := s.counter.GetNextValue(ctx, "leave_request")
	if err != nil {
		s.logger.Error("submit leave request number failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	l := &LeaveRequest{
		ID:            uuid.New(),
		RequestNumber: fmt.Sprintf("LR-%06d", seq),
		EmployeeID:    empl.EmployeeID,
		ManagerID:     empl.ManagerID,
		LeaveType:     req.LeaveType,
		StartDate:     startDate,
		EndDate:       endDate,
		Status:        StatusPending,
		Comments:      req.Comments,
		EmployeeName:  empl.Name,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("submit leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("request_number", l.RequestNumber),
		zap.String("employee_id", l.EmployeeID),
		zap.Int("num_days", numDays),
	)

	return mapToResponse(*l), nil
}

// Decide finalizes a pending request. The status flip and the ledger settle
// run in one transaction: either both commit or the request stays pending and
// retryable. Repeated decisions on a terminal request fail with a conflict.
func (s *service) Decide(ctx context.Context, actor policy.Actor, id, decision string) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("decide leave requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("actor_id", actor.EmployeeID),
		zap.String("decision", decision),
	)

	if decision != StatusApproved && decision != StatusRejected {
		return LeaveResponse{}, leaveerrors.ErrInvalidDecision
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	// The load is a plain read; only the writes below join the transaction.
	// The MarkDecided CAS re-checks the status, so a stale read here cannot
	// double-decide.
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	if err := policy.AuthorizeDecision(actor, l.ManagerID); err != nil {
		s.logger.Warn("decide leave not authorized",
			zap.String("leave_id", id),
			zap.String("actor_id", actor.EmployeeID),
			zap.String("actor_role", actor.Role.String()),
		)
		return LeaveResponse{}, err
	}

	if l.IsTerminal() {
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	qtx := s.repo.WithTx(tx)
	ok, err := qtx.MarkDecided(ctx, id, decision)
	if err != nil {
		s.logger.Error("decide leave status update failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if !ok {
		// Lost the race against a concurrent decision.
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	numDays := l.NumDays()
	if decision == StatusApproved {
		etx := s.employeeRepo.WithTx(tx)
		settled, err := etx.SettleCredit(ctx, l.EmployeeID, l.LeaveType, numDays)
		if err != nil {
			s.logger.Error("decide leave settle failed", zap.String("leave_id", id), zap.Error(err))
			return LeaveResponse{}, err
		}
		if !settled {
			// Balance no longer covers the span; roll everything back so the
			// request stays pending instead of approving unpaid days.
			s.logger.Warn("decide leave settle rejected, balance too low",
				zap.String("leave_id", id),
				zap.String("employee_id", l.EmployeeID),
				zap.Int("num_days", numDays),
			)
			return LeaveResponse{}, employeeerrors.ErrInsufficientBalance
		}
	}

	if s.outbox != nil {
		event := events.LeaveDecidedEvent{
			EventType:  "leave_decided",
			RequestID:  rid,
			LeaveID:    l.ID.String(),
			EmployeeID: l.EmployeeID,
			ManagerID:  l.ManagerID,
			LeaveType:  l.LeaveType,
			Decision:   decision,
			NumDays:    numDays,
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return LeaveResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "leave_request",
			AggregateID:   l.ID.String(),
			EventType:     event.EventType,
			Topic:         events.LeaveDecidedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("decide leave outbox persist failed", zap.String("leave_id", id), zap.Error(err))
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	l.Status = decision
	s.logger.Info("decide leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("decision", decision),
		zap.Int("num_days", numDays),
	)

	return mapToResponse(*l), nil
}

func (s *service) ListMine(ctx context.Context, actor policy.Actor, page, pageSize int) ([]LeaveResponse, int64, error) {
	rows, total, err := s.repo.FindByEmployee(ctx, actor.EmployeeID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(rows), total, nil
}

func (s *service) ListToReview(ctx context.Context, actor policy.Actor, page, pageSize int) ([]LeaveResponse, int64, error) {
	rows, total, err := s.repo.FindByManager(ctx, actor.EmployeeID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(rows), total, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

// daySpan is the inclusive number of calendar days between two day-precision
// dates. 01/03 to 05/03 is 5 days.
func daySpan(startDate, endDate time.Time) int {
	return int(endDate.Sub(startDate).Hours()/24) + 1
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	return LeaveResponse{
		ID:            l.ID.String(),
		RequestNumber: l.RequestNumber,
		EmployeeID:    l.EmployeeID,
		ManagerID:     l.ManagerID,
		LeaveType:     l.LeaveType,
		StartDate:     l.StartDate.Format(dateLayout),
		EndDate:       l.EndDate.Format(dateLayout),
		NumDays:       l.NumDays(),
		Status:        l.Status,
		Comments:      l.Comments,
		EmployeeName:  l.EmployeeName,
	}
}

func mapToListResponse(rows []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(rows))
	for i, l := range rows {
		resp[i] = mapToResponse(l)
	}
	return resp
}
