package leavetype_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jkaz1007/lms-sys/internal/leavetype"
	leavetypeerrors "github.com/jkaz1007/lms-sys/internal/leavetype/errors"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

const catalogCacheKey = "leave-types:catalog"

type fakeLeaveTypeRepository struct {
	createFn                    func(ctx context.Context, lt *leavetype.LeaveType) error
	findAllFn                   func(ctx context.Context) ([]leavetype.LeaveType, error)
	findByNameFn                func(ctx context.Context, name string) (*leavetype.LeaveType, error)
	findAvailableForEmployeesFn func(ctx context.Context) ([]leavetype.LeaveType, error)
	updateFn                    func(ctx context.Context, lt *leavetype.LeaveType) error
	deleteByNameFn              func(ctx context.Context, name string) error
}

func (f *fakeLeaveTypeRepository) Create(ctx context.Context, lt *leavetype.LeaveType) error {
	if f.createFn != nil {
		return f.createFn(ctx, lt)
	}
	return nil
}

func (f *fakeLeaveTypeRepository) FindAll(ctx context.Context) ([]leavetype.LeaveType, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeLeaveTypeRepository) FindByName(ctx context.Context, name string) (*leavetype.LeaveType, error) {
	if f.findByNameFn != nil {
		return f.findByNameFn(ctx, name)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveTypeRepository) FindAvailableForEmployees(ctx context.Context) ([]leavetype.LeaveType, error) {
	if f.findAvailableForEmployeesFn != nil {
		return f.findAvailableForEmployeesFn(ctx)
	}
	return nil, nil
}

func (f *fakeLeaveTypeRepository) Update(ctx context.Context, lt *leavetype.LeaveType) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, lt)
	}
	return nil
}

func (f *fakeLeaveTypeRepository) DeleteByName(ctx context.Context, name string) error {
	if f.deleteByNameFn != nil {
		return f.deleteByNameFn(ctx, name)
	}
	return nil
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestLeaveTypeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and invalidates the catalog cache", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		redisMock.ExpectDel(catalogCacheKey).SetVal(1)

		repo := &fakeLeaveTypeRepository{}
		var created *leavetype.LeaveType
		repo.createFn = func(ctx context.Context, lt *leavetype.LeaveType) error {
			created = lt
			return nil
		}

		svc := leavetype.NewService(repo, rdb)
		resp, err := svc.Create(ctx, leavetype.CreateLeaveTypeRequest{
			Name:                  "casual",
			Quota:                 intPtr(10),
			AvailableForEmployees: true,
		})

		assert.NoError(t, err)
		assert.Equal(t, "casual", resp.Name)
		assert.Equal(t, 10, resp.Quota)
		assert.True(t, resp.AvailableForEmployees)
		assert.NotNil(t, created)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		rdb, _ := redismock.NewClientMock()
		repo := &fakeLeaveTypeRepository{
			findByNameFn: func(ctx context.Context, name string) (*leavetype.LeaveType, error) {
				return &leavetype.LeaveType{Name: name, Quota: 10}, nil
			},
		}

		svc := leavetype.NewService(repo, rdb)
		_, err := svc.Create(ctx, leavetype.CreateLeaveTypeRequest{
			Name:  "casual",
			Quota: intPtr(10),
		})

		assert.ErrorIs(t, err, leavetypeerrors.ErrLeaveTypeAlreadyExists)
	})
}

func TestLeaveTypeService_GetAll(t *testing.T) {
	ctx := context.Background()

	catalog := []leavetype.LeaveType{
		{Name: "casual", Quota: 10, AvailableForEmployees: true},
		{Name: "sick", Quota: 5, AvailableForEmployees: true},
	}
	expected := []leavetype.LeaveTypeResponse{
		{Name: "casual", Quota: 10, AvailableForEmployees: true},
		{Name: "sick", Quota: 5, AvailableForEmployees: true},
	}

	t.Run("cache hit skips the registry", func(t *testing.T) {
		cached, err := json.Marshal(expected)
		assert.NoError(t, err)

		rdb, redisMock := redismock.NewClientMock()
		redisMock.ExpectGet(catalogCacheKey).SetVal(string(cached))

		var dbHit bool
		repo := &fakeLeaveTypeRepository{
			findAllFn: func(ctx context.Context) ([]leavetype.LeaveType, error) {
				dbHit = true
				return catalog, nil
			},
		}

		svc := leavetype.NewService(repo, rdb)
		resp, err := svc.GetAll(ctx)

		assert.NoError(t, err)
		assert.Equal(t, expected, resp)
		assert.False(t, dbHit)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("cache miss reads the registry and fills the cache", func(t *testing.T) {
		cached, err := json.Marshal(expected)
		assert.NoError(t, err)

		rdb, redisMock := redismock.NewClientMock()
		redisMock.ExpectGet(catalogCacheKey).RedisNil()
		redisMock.ExpectSet(catalogCacheKey, cached, 1*time.Hour).SetVal("OK")

		repo := &fakeLeaveTypeRepository{
			findAllFn: func(ctx context.Context) ([]leavetype.LeaveType, error) {
				return catalog, nil
			},
		}

		svc := leavetype.NewService(repo, rdb)
		resp, err := svc.GetAll(ctx)

		assert.NoError(t, err)
		assert.Equal(t, expected, resp)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("registry failure surfaces", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		redisMock.ExpectGet(catalogCacheKey).RedisNil()

		repo := &fakeLeaveTypeRepository{
			findAllFn: func(ctx context.Context) ([]leavetype.LeaveType, error) {
				return nil, errors.New("connection refused")
			},
		}

		svc := leavetype.NewService(repo, rdb)
		_, err := svc.GetAll(ctx)

		assert.Error(t, err)
	})
}

func TestLeaveTypeService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("mutates quota and availability only", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		redisMock.ExpectDel(catalogCacheKey).SetVal(1)

		repo := &fakeLeaveTypeRepository{
			findByNameFn: func(ctx context.Context, name string) (*leavetype.LeaveType, error) {
				return &leavetype.LeaveType{Name: name, Quota: 10, AvailableForEmployees: true}, nil
			},
		}
		var updated *leavetype.LeaveType
		repo.updateFn = func(ctx context.Context, lt *leavetype.LeaveType) error {
			updated = lt
			return nil
		}

		svc := leavetype.NewService(repo, rdb)
		resp, err := svc.Update(ctx, "casual", leavetype.UpdateLeaveTypeRequest{
			Quota:                 intPtr(12),
			AvailableForEmployees: boolPtr(false),
		})

		assert.NoError(t, err)
		assert.Equal(t, 12, resp.Quota)
		assert.False(t, resp.AvailableForEmployees)
		if assert.NotNil(t, updated) {
			assert.Equal(t, "casual", updated.Name)
		}
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("unknown name maps to not found", func(t *testing.T) {
		rdb, _ := redismock.NewClientMock()
		repo := &fakeLeaveTypeRepository{}

		svc := leavetype.NewService(repo, rdb)
		_, err := svc.Update(ctx, "ghost", leavetype.UpdateLeaveTypeRequest{
			Quota:                 intPtr(1),
			AvailableForEmployees: boolPtr(true),
		})

		assert.ErrorIs(t, err, leavetypeerrors.ErrLeaveTypeNotFound)
	})
}

func TestLeaveTypeService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes and invalidates the catalog cache", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		redisMock.ExpectDel(catalogCacheKey).SetVal(1)

		repo := &fakeLeaveTypeRepository{
			findByNameFn: func(ctx context.Context, name string) (*leavetype.LeaveType, error) {
				return &leavetype.LeaveType{Name: name}, nil
			},
		}

		svc := leavetype.NewService(repo, rdb)
		assert.NoError(t, svc.Delete(ctx, "casual"))
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("unknown name maps to not found", func(t *testing.T) {
		rdb, _ := redismock.NewClientMock()
		svc := leavetype.NewService(&fakeLeaveTypeRepository{}, rdb)

		err := svc.Delete(ctx, "ghost")
		assert.ErrorIs(t, err, leavetypeerrors.ErrLeaveTypeNotFound)
	})
}
