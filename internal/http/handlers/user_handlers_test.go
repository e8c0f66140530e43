package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yingxuHou/MeiHuaXinYi/domain"
	"github.com/yingxuHou/MeiHuaXinYi/internal/http/response"
	"github.com/yingxuHou/MeiHuaXinYi/internal/mocks"
)

func userRouter(user *domain.User, svc domain.UserService) *gin.Engine {
	h := NewUserHandlers(svc)
	r := gin.New()
	g := r.Group("/api/user", withUser(user))
	g.GET("/profile", h.Profile)
	g.PUT("/profile", h.UpdateProfile)
	g.GET("/stats", h.Stats)
	g.POST("/free-count/decrement", h.DecrementFree)
	g.POST("/total-count/increment", h.IncrementTotal)
	return r
}

func putJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestUserHandlers_Profile(t *testing.T) {
	svc := mocks.NewMockUserService()
	svc.ProfileFunc = func(ctx context.Context, userID uint) (*domain.User, domain.StatusCounts, error) {
		return &domain.User{ID: userID, Email: "seeker@example.com", FreeCount: 7},
			domain.StatusCounts{Total: 4, Completed: 3, Failed: 1}, nil
	}

	r := userRouter(seeker(), svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/user/profile", nil))

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w.Body.Bytes()).Data.(map[string]any)
	assert.Equal(t, float64(7), data["user"].(map[string]any)["freeCount"])
	assert.Equal(t, float64(3), data["records"].(map[string]any)["completed"])
}

func TestUserHandlers_UpdateProfile(t *testing.T) {
	t.Run("partial update", func(t *testing.T) {
		svc := mocks.NewMockUserService()
		var gotUpd domain.ProfileUpdate
		svc.UpdateProfileFunc = func(ctx context.Context, userID uint, upd domain.ProfileUpdate) (*domain.User, error) {
			gotUpd = upd
			return &domain.User{ID: userID, Nickname: *upd.Nickname}, nil
		}

		r := userRouter(seeker(), svc)
		w := putJSON(r, "/api/user/profile", `{"nickname":"Wanderer","birthDate":"1990-03-14"}`)

		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, gotUpd.Nickname)
		assert.Equal(t, "Wanderer", *gotUpd.Nickname)
		require.NotNil(t, gotUpd.BirthDate)
		assert.Equal(t, 1990, gotUpd.BirthDate.Year())
		assert.Nil(t, gotUpd.Gender)
	})

	t.Run("malformed birth date maps to 422", func(t *testing.T) {
		r := userRouter(seeker(), mocks.NewMockUserService())
		w := putJSON(r, "/api/user/profile", `{"birthDate":"14/03/1990"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, response.CodeValidationError, decode(t, w.Body.Bytes()).Error.Code)
	})

	t.Run("service validation errors pass through", func(t *testing.T) {
		svc := mocks.NewMockUserService()
		svc.UpdateProfileFunc = func(ctx context.Context, userID uint, upd domain.ProfileUpdate) (*domain.User, error) {
			return nil, domain.NewValidationError(domain.FieldError{Field: "nickname", Message: "must be between 2 and 20 characters"})
		}

		r := userRouter(seeker(), svc)
		w := putJSON(r, "/api/user/profile", `{"nickname":"x"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestUserHandlers_Stats(t *testing.T) {
	svc := mocks.NewMockUserService()
	svc.StatsFunc = func(ctx context.Context, user *domain.User) ([]domain.CategoryStat, []domain.DivinationRecord, error) {
		return []domain.CategoryStat{{Category: "love", Status: "completed", Count: 2}},
			[]domain.DivinationRecord{{ID: "rec-1"}}, nil
	}

	r := userRouter(seeker(), svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/user/stats", nil))

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w.Body.Bytes()).Data.(map[string]any)
	assert.Len(t, data["stats"].([]any), 1)
	assert.Len(t, data["recent"].([]any), 1)

	balance := data["userBalance"].(map[string]any)
	assert.Equal(t, float64(10), balance["freeCount"])
	assert.Equal(t, float64(2), balance["totalCount"])
	assert.NotEmpty(t, balance["memberSince"])
}

func TestUserHandlers_Counters(t *testing.T) {
	t.Run("decrement echoes the stored balance", func(t *testing.T) {
		svc := mocks.NewMockUserService()
		svc.DecrementFreeFunc = func(ctx context.Context, userID uint) (int, error) {
			return 6, nil
		}

		r := userRouter(seeker(), svc)
		w := postJSON(r, "/api/user/free-count/decrement", "")

		require.Equal(t, http.StatusOK, w.Code)
		data := decode(t, w.Body.Bytes()).Data.(map[string]any)
		assert.Equal(t, float64(6), data["freeCount"])
	})

	t.Run("exhausted balance maps to 402", func(t *testing.T) {
		r := userRouter(seeker(), mocks.NewMockUserService())
		w := postJSON(r, "/api/user/free-count/decrement", "")

		assert.Equal(t, http.StatusPaymentRequired, w.Code)
		assert.Equal(t, response.CodeInsufficientBalance, decode(t, w.Body.Bytes()).Error.Code)
	})

	t.Run("increment echoes the stored total", func(t *testing.T) {
		svc := mocks.NewMockUserService()
		svc.IncrementTotalFunc = func(ctx context.Context, userID uint) (int, error) {
			return 3, nil
		}

		r := userRouter(seeker(), svc)
		w := postJSON(r, "/api/user/total-count/increment", "")

		require.Equal(t, http.StatusOK, w.Code)
		data := decode(t, w.Body.Bytes()).Data.(map[string]any)
		assert.Equal(t, float64(3), data["totalCount"])
	})
}
