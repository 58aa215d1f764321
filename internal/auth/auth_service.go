package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	autherrors "github.com/jkaz1007/lms-sys/internal/auth/errors"
	"github.com/jkaz1007/lms-sys/internal/config"
	"github.com/jkaz1007/lms-sys/internal/employee"
	"github.com/jkaz1007/lms-sys/internal/events"
	"github.com/jkaz1007/lms-sys/internal/leavetype"
	"github.com/jkaz1007/lms-sys/internal/messaging/kafka"
	"github.com/jkaz1007/lms-sys/internal/policy"
	"github.com/jkaz1007/lms-sys/internal/shared/contextutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
	Login(ctx context.Context, employeeID, password string) (token string, resp AuthResponse, err error)
	GetMe(ctx context.Context, employeeID string) (*AuthResponse, error)
}

type service struct {
	db           *sql.DB
	employeeRepo employee.Repository
	typeRepo     leavetype.Repository
	outbox       kafka.OutboxRepository
	cfg          *config.Config
	logger       *zap.Logger
}

func NewService(
	db *sql.DB,
	employeeRepo employee.Repository,
	typeRepo leavetype.Repository,
	outboxRepo kafka.OutboxRepository,
	cfg *config.Config,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		db:           db,
		employeeRepo: employeeRepo,
		typeRepo:     typeRepo,
		outbox:       outboxRepo,
		cfg:          cfg,
		logger:       l,
	}
}

// Register creates the employee and seeds their leave credit ledger from the
// registry snapshot taken now. Types added to the registry later do not
// propagate to existing ledgers.
func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("register employee requested",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.String("role", req.Role),
	)

	role, err := policy.ParseRole(req.Role)
	if err != nil {
		return AuthResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("register begin tx failed", zap.Error(err))
		return AuthResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.employeeRepo.WithTx(tx)

	availableTypes, err := s.typeRepo.FindAvailableForEmployees(ctx)
	if err != nil {
		s.logger.Error("register registry snapshot failed", zap.Error(err))
		return AuthResponse{}, err
	}

	credits := make([]employee.LeaveCredit, 0, len(availableTypes))
	for _, lt := range availableTypes {
		credits = append(credits, employee.LeaveCredit{
			ID:        uuid.New(),
			LeaveType: lt.Name,
			Quota:     lt.Quota,
			Used:      0,
			Available: lt.Quota,
		})
	}

	empl := &employee.Employee{
		ID:           uuid.New(),
		EmployeeID:   req.EmployeeID,
		PasswordHash: string(hashed),
		Role:         role.String(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		ManagerID:    req.ManagerID,
		Credits:      credits,
	}

	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("register persist failed", zap.Error(err))
		return AuthResponse{}, employee.MapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.EmployeeRegisteredEvent{
			EventType:   "employee_registered",
			RequestID:   rid,
			EmployeeID:  empl.EmployeeID,
			Role:        empl.Role,
			CreditCount: len(credits),
			OccurredAt:  time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return AuthResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "employee",
			AggregateID:   empl.EmployeeID,
			EventType:     event.EventType,
			Topic:         events.EmployeeRegisteredTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("register outbox persist failed",
				zap.String("employee_id", empl.EmployeeID),
				zap.Error(err),
			)
			return AuthResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("register commit failed", zap.String("request_id", rid), zap.Error(err))
		return AuthResponse{}, err
	}

	s.logger.Info("register employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.EmployeeID),
		zap.Int("credits_seeded", len(credits)),
	)

	return mapToResponse(*empl), nil
}

func (s *service) Login(ctx context.Context, employeeID, password string) (string, AuthResponse, error) {
	empl, err := s.employeeRepo.FindByEmployeeID(ctx, employeeID)
	if err != nil {
		// One generic failure for unknown employee and wrong password. An
		// infrastructure error is not a credential problem and must not
		// masquerade as one.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", AuthResponse{}, autherrors.ErrInvalidCredentials
		}
		s.logger.Error("login employee lookup failed", zap.String("employee_id", employeeID), zap.Error(err))
		return "", AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(empl.PasswordHash), []byte(password)); err != nil {
		return "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	token, err := s.generateToken(empl)
	if err != nil {
		s.logger.Error("token generation failed", zap.String("employee_id", employeeID), zap.Error(err))
		return "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("login success", zap.String("employee_id", employeeID))
	return token, mapToResponse(*empl), nil
}

func (s *service) GetMe(ctx context.Context, employeeID string) (*AuthResponse, error) {
	empl, err := s.employeeRepo.FindByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, employee.MapRepositoryError(err)
	}

	resp := mapToResponse(*empl)
	return &resp, nil
}

func (s *service) generateToken(empl *employee.Employee) (string, error) {
	claims := jwt.MapClaims{
		"employee_id":   empl.EmployeeID,
		"role":          empl.Role,
		"manager_id":    empl.ManagerID,
		"employee_name": empl.Name,
		"exp":           time.Now().Add(s.cfg.TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func mapToResponse(e employee.Employee) AuthResponse {
	credits := make([]LeaveCreditResponse, len(e.Credits))
	for i, c := range e.Credits {
		credits[i] = LeaveCreditResponse{
			LeaveType: c.LeaveType,
			Quota:     c.Quota,
			Used:      c.Used,
			Available: c.Available,
		}
	}

	return AuthResponse{
		EmployeeID:   e.EmployeeID,
		Role:         e.Role,
		Name:         e.Name,
		Email:        e.Email,
		Phone:        e.Phone,
		ManagerID:    e.ManagerID,
		LeaveCredits: credits,
	}
}
