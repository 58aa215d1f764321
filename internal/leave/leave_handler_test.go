package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jkaz1007/lms-sys/internal/leave"
	leaveerrors "github.com/jkaz1007/lms-sys/internal/leave/errors"
	"github.com/jkaz1007/lms-sys/internal/policy"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiMeta struct {
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  *apiMeta        `json:"meta"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	submitFn       func(ctx context.Context, actor policy.Actor, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error)
	decideFn       func(ctx context.Context, actor policy.Actor, id, decision string) (leave.LeaveResponse, error)
	listMineFn     func(ctx context.Context, actor policy.Actor, page, pageSize int) ([]leave.LeaveResponse, int64, error)
	listToReviewFn func(ctx context.Context, actor policy.Actor, page, pageSize int) ([]leave.LeaveResponse, int64, error)
}

func (f *fakeLeaveService) Submit(ctx context.Context, actor policy.Actor, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
	return f.submitFn(ctx, actor, req)
}
func (f *fakeLeaveService) Decide(ctx context.Context, actor policy.Actor, id, decision string) (leave.LeaveResponse, error) {
	return f.decideFn(ctx, actor, id, decision)
}
func (f *fakeLeaveService) ListMine(ctx context.Context, actor policy.Actor, page, pageSize int) ([]leave.LeaveResponse, int64, error) {
	return f.listMineFn(ctx, actor, page, pageSize)
}
func (f *fakeLeaveService) ListToReview(ctx context.Context, actor policy.Actor, page, pageSize int) ([]leave.LeaveResponse, int64, error) {
	return f.listToReviewFn(ctx, actor, page, pageSize)
}

func authedContext(w *httptest.ResponseRecorder) (*gin.Context, func(method, target, body string)) {
	c, _ := gin.CreateTestContext(w)
	c.Set("employee_id", "EMP-1")
	c.Set("role", "employee")
	c.Set("manager_id", "MGR-1")
	c.Set("employee_name", "Dina Putri")

	attach := func(method, target, body string) {
		var reader *strings.Reader
		if body == "" {
			reader = strings.NewReader("{}")
		} else {
			reader = strings.NewReader(body)
		}
		c.Request = httptest.NewRequest(method, target, reader)
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, attach
}

func TestLeaveHandler_Submit(t *testing.T) {
	t.Run("files the request for the token subject", func(t *testing.T) {
		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, actor policy.Actor, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, "EMP-1", actor.EmployeeID)
				assert.Equal(t, policy.RoleEmployee, actor.Role)
				assert.Equal(t, "casual", req.LeaveType)
				return leave.LeaveResponse{
					ID:            uuid.New().String(),
					RequestNumber: "LR-000007",
					EmployeeID:    actor.EmployeeID,
					LeaveType:     req.LeaveType,
					StartDate:     req.StartDate,
					EndDate:       req.EndDate,
					NumDays:       5,
					Status:        leave.StatusPending,
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, attach := authedContext(w)
		attach(http.MethodPost, "/leave/request",
			`{"leaveType":"casual","startDate":"01/03/2024","endDate":"05/03/2024","comments":"trip"}`)

		h.Submit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)

		var resp leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, "LR-000007", resp.RequestNumber)
		assert.Equal(t, leave.StatusPending, resp.Status)
	})

	t.Run("success caches the response under the idempotency key and drops the lock", func(t *testing.T) {
		resp := leave.LeaveResponse{
			ID:            uuid.New().String(),
			RequestNumber: "LR-000009",
			EmployeeID:    "EMP-1",
			LeaveType:     "casual",
			NumDays:       2,
			Status:        leave.StatusPending,
		}
		payload, err := json.Marshal(resp)
		assert.NoError(t, err)

		cacheKey := "idemp:/leave/request:EMP-1:abc-123"
		lockKey := cacheKey + ":lock"

		rdb, redisMock := redismock.NewClientMock()
		redisMock.ExpectSet(cacheKey, payload, 24*time.Hour).SetVal("OK")
		redisMock.ExpectDel(lockKey).SetVal(1)

		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, actor policy.Actor, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				return resp, nil
			},
		}

		h := leave.NewHandlerWithRedis(svc, rdb)
		w := httptest.NewRecorder()
		c, attach := authedContext(w)
		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)
		attach(http.MethodPost, "/leave/request",
			`{"leaveType":"casual","startDate":"01/03/2024","endDate":"02/03/2024"}`)

		h.Submit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("a failed submit drops the lock without caching", func(t *testing.T) {
		cacheKey := "idemp:/leave/request:EMP-1:abc-123"
		lockKey := cacheKey + ":lock"

		rdb, redisMock := redismock.NewClientMock()
		redisMock.ExpectDel(lockKey).SetVal(1)

		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, actor policy.Actor, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrInvalidDateRange
			},
		}

		h := leave.NewHandlerWithRedis(svc, rdb)
		w := httptest.NewRecorder()
		c, attach := authedContext(w)
		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)
		attach(http.MethodPost, "/leave/request",
			`{"leaveType":"casual","startDate":"05/03/2024","endDate":"01/03/2024"}`)

		h.Submit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("missing fields fail binding", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, attach := authedContext(w)
		attach(http.MethodPost, "/leave/request", `{"leaveType":"casual"}`)

		h.Submit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
	})
}

func TestLeaveHandler_Decide(t *testing.T) {
	statusCases := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"forbidden role", policy.ErrRoleCannotDecide, http.StatusForbidden},
		{"not the manager", policy.ErrNotRequestManager, http.StatusUnauthorized},
		{"already decided", leaveerrors.ErrAlreadyDecided, http.StatusConflict},
		{"unknown request", leaveerrors.ErrLeaveNotFound, http.StatusNotFound},
		{"invalid decision", leaveerrors.ErrInvalidDecision, http.StatusBadRequest},
	}

	for _, tc := range statusCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeLeaveService{
				decideFn: func(ctx context.Context, actor policy.Actor, id, decision string) (leave.LeaveResponse, error) {
					return leave.LeaveResponse{}, tc.serviceErr
				},
			}

			h := leave.NewHandler(svc)
			w := httptest.NewRecorder()
			c, attach := authedContext(w)
			c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}
			attach(http.MethodPatch, "/leave/update-status/x", `{"approval_status":"approved"}`)

			h.Decide(c)

			assert.Equal(t, tc.wantStatus, w.Code)
			env := decodeEnvelope(t, w.Body.Bytes())
			assert.False(t, env.Ok)
			assert.NotNil(t, env.Error)
		})
	}

	t.Run("passes id and decision through", func(t *testing.T) {
		leaveID := uuid.NewString()
		svc := &fakeLeaveService{
			decideFn: func(ctx context.Context, actor policy.Actor, id, decision string) (leave.LeaveResponse, error) {
				assert.Equal(t, leaveID, id)
				assert.Equal(t, leave.StatusApproved, decision)
				return leave.LeaveResponse{ID: id, Status: decision}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, attach := authedContext(w)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		attach(http.MethodPatch, "/leave/update-status/"+leaveID, `{"approval_status":"approved"}`)

		h.Decide(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestLeaveHandler_Listing(t *testing.T) {
	t.Run("defaults and caps pagination", func(t *testing.T) {
		var gotPage, gotPageSize int
		svc := &fakeLeaveService{
			listMineFn: func(ctx context.Context, actor policy.Actor, page, pageSize int) ([]leave.LeaveResponse, int64, error) {
				gotPage, gotPageSize = page, pageSize
				return nil, 0, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, attach := authedContext(w)
		attach(http.MethodGet, "/leave/my-leaves?page=0&page_size=500", "")

		h.ListMine(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, gotPage)
		assert.Equal(t, 100, gotPageSize)
	})

	t.Run("returns pagination meta", func(t *testing.T) {
		svc := &fakeLeaveService{
			listToReviewFn: func(ctx context.Context, actor policy.Actor, page, pageSize int) ([]leave.LeaveResponse, int64, error) {
				return []leave.LeaveResponse{{RequestNumber: "LR-000001"}}, 35, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, attach := authedContext(w)
		attach(http.MethodGet, "/leave/leaves-to-review?page=2&page_size=10", "")

		h.ListToReview(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		if assert.NotNil(t, env.Meta) {
			assert.Equal(t, int64(35), env.Meta.Total)
			assert.Equal(t, 4, env.Meta.TotalPages)
			assert.Equal(t, 2, env.Meta.Page)
			assert.Equal(t, 10, env.Meta.PageSize)
		}
	})
}
