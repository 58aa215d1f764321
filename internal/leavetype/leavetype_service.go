package leavetype

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	leavetypeerrors "github.com/jkaz1007/lms-sys/internal/leavetype/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const catalogCacheKey = "leave-types:catalog"

//go:generate mockgen -source=leavetype_service.go -destination=mock/leavetype_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetAll(ctx context.Context) ([]LeaveTypeResponse, error)
	GetByName(ctx context.Context, name string) (LeaveTypeResponse, error)
	Update(ctx context.Context, name string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	Delete(ctx context.Context, name string) error
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	s.logger.Debug("create leave type requested", zap.String("name", req.Name))

	if _, err := s.repo.FindByName(ctx, req.Name); err == nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("create leave type lookup failed", zap.Error(err))
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	lt := &LeaveType{
		Name:                  req.Name,
		Quota:                 *req.Quota,
		AvailableForEmployees: req.AvailableForEmployees,
	}

	if err := s.repo.Create(ctx, lt); err != nil {
		s.logger.Error("create leave type persist failed", zap.Error(err))
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	s.invalidateCatalogCache(ctx)
	s.logger.Info("create leave type success", zap.String("name", lt.Name), zap.Int("quota", lt.Quota))

	return mapToResponse(*lt), nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveTypeResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, catalogCacheKey).Result(); err == nil {
			var resp []LeaveTypeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// Collapse concurrent cache misses into one registry read.
	v, err, _ := s.sf.Do(catalogCacheKey, func() (interface{}, error) {
		types, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(types)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, catalogCacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]LeaveTypeResponse), nil
}

func (s *service) GetByName(ctx context.Context, name string) (LeaveTypeResponse, error) {
	lt, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*lt), nil
}

func (s *service) Update(ctx context.Context, name string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error) {
	s.logger.Debug("update leave type requested", zap.String("name", name))

	lt, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	// Name is immutable; only quota and availability change. Credits already
	// issued to employees are deliberately left untouched.
	lt.Quota = *req.Quota
	lt.AvailableForEmployees = *req.AvailableForEmployees

	if err := s.repo.Update(ctx, lt); err != nil {
		s.logger.Error("update leave type persist failed", zap.String("name", name), zap.Error(err))
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	s.invalidateCatalogCache(ctx)
	s.logger.Info("update leave type success", zap.String("name", name))

	return mapToResponse(*lt), nil
}

func (s *service) Delete(ctx context.Context, name string) error {
	if _, err := s.repo.FindByName(ctx, name); err != nil {
		return mapRepositoryError(err)
	}

	if err := s.repo.DeleteByName(ctx, name); err != nil {
		s.logger.Error("delete leave type failed", zap.String("name", name), zap.Error(err))
		return mapRepositoryError(err)
	}

	s.invalidateCatalogCache(ctx)
	s.logger.Info("delete leave type success", zap.String("name", name))
	return nil
}

func (s *service) invalidateCatalogCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, catalogCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate leave type catalog cache",
			zap.Error(err),
			zap.String("key", catalogCacheKey),
		)
	}
}

func mapToResponse(lt LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		Name:                  lt.Name,
		Quota:                 lt.Quota,
		AvailableForEmployees: lt.AvailableForEmployees,
	}
}

func mapToListResponse(types []LeaveType) []LeaveTypeResponse {
	resp := make([]LeaveTypeResponse, len(types))
	for i, lt := range types {
		resp[i] = mapToResponse(lt)
	}
	return resp
}
