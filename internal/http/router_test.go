package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yingxuHou/MeiHuaXinYi/internal/config"
	"github.com/yingxuHou/MeiHuaXinYi/internal/http/handlers"
	"github.com/yingxuHou/MeiHuaXinYi/internal/http/response"
	"github.com/yingxuHou/MeiHuaXinYi/internal/infrastructure/auth"
	"github.com/yingxuHou/MeiHuaXinYi/internal/infrastructure/database"
	"github.com/yingxuHou/MeiHuaXinYi/internal/infrastructure/oracle"
	"github.com/yingxuHou/MeiHuaXinYi/internal/infrastructure/repositories"
	"github.com/yingxuHou/MeiHuaXinYi/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestServer wires the full stack over an in-memory database and redis,
// exactly as app.Run does against the real backends.
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(gdb))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := database.NewRedis(mr.Addr(), "", 0)
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{
		Port:              "0",
		CORSOrigins:       []string{"*"},
		JWTSecret:         "test-secret",
		JWTIssuer:         "meihua-xinyi",
		JWTAudience:       "meihua-xinyi-users",
		AccessTTL:         time.Hour,
		RefreshTTL:        24 * time.Hour,
		InitialFreeCount:  10,
		GenerationTimeout: 5 * time.Second,
		RateLimitWindow:   time.Minute,
		RateLimitMax:      1000,
	}

	zlog := zap.NewNop()
	passwordSvc := auth.NewPasswordService(4)
	tokenSvc := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL, cfg.RefreshTTL)
	userRepo := repositories.NewUserRepository(gdb)
	recordRepo := repositories.NewDivinationRepository(gdb)

	authSvc := services.NewAuthService(userRepo, passwordSvc, tokenSvc, cfg.InitialFreeCount)
	divinationSvc := services.NewDivinationService(userRepo, recordRepo, oracle.NewWithSeed(1), cfg.GenerationTimeout, zlog)
	userSvc := services.NewUserService(userRepo, recordRepo)

	return BuildRouter(RouterDeps{
		Config:  cfg,
		Logger:  zlog,
		AuthSvc: authSvc,

		AuthHandlers:       handlers.NewAuthHandlers(authSvc),
		DivinationHandlers: handlers.NewDivinationHandlers(divinationSvc),
		UserHandlers:       handlers.NewUserHandlers(userSvc),

		Redis: rdb,
		DBPing: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})
}

func do(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func registerUser(t *testing.T, r *gin.Engine, email string) (token string) {
	t.Helper()
	w := do(r, http.MethodPost, "/api/auth/register", "",
		fmt.Sprintf(`{"email":%q,"password":"password123"}`, email))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := envelope(t, w).Data.(map[string]any)
	return data["tokens"].(map[string]any)["accessToken"].(string)
}

func TestFullDivinationFlow(t *testing.T) {
	r := newTestServer(t)
	token := registerUser(t, r, "user@example.com")

	question := `{"question":"will my career flourish?"}`

	// first submission: balance 10 -> 9, record completed
	w := do(r, http.MethodPost, "/api/divination/submit", token, question)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := envelope(t, w).Data.(map[string]any)
	assert.Equal(t, "completed", data["status"])
	assert.Equal(t, float64(9), data["userBalance"].(map[string]any)["freeCount"])
	recordID := data["divinationId"].(string)
	require.NotEmpty(t, recordID)

	// the stored record is retrievable and owner-scoped
	w = do(r, http.MethodGet, "/api/divination/result/"+recordID, token, "")
	require.Equal(t, http.StatusOK, w.Code)

	// spend the remaining nine
	for i := 0; i < 9; i++ {
		w = do(r, http.MethodPost, "/api/divination/submit", token, question)
		require.Equal(t, http.StatusCreated, w.Code, "submission %d: %s", i+2, w.Body.String())
	}
	assert.Equal(t, float64(0), envelope(t, w).Data.(map[string]any)["userBalance"].(map[string]any)["freeCount"])

	// the eleventh submission is rejected by the balance guard
	w = do(r, http.MethodPost, "/api/divination/submit", token, question)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, response.CodeInsufficientBalance, envelope(t, w).Error.Code)

	// history reflects all ten records
	w = do(r, http.MethodGet, "/api/divination/history?limit=5", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	env := envelope(t, w)
	assert.Len(t, env.Data.([]any), 5)
	require.NotNil(t, env.Meta.Pagination)
	assert.Equal(t, int64(10), env.Meta.Pagination.Total)
	assert.Equal(t, 2, env.Meta.Pagination.TotalPages)

	// the user-facing listing serves the same paginated history
	w = do(r, http.MethodGet, "/api/user/divinations?limit=5&page=2", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	env = envelope(t, w)
	assert.Len(t, env.Data.([]any), 5)
	require.NotNil(t, env.Meta.Pagination)
	assert.Equal(t, 2, env.Meta.Pagination.Page)
	assert.Equal(t, int64(10), env.Meta.Pagination.Total)

	// the profile agrees with the spent balance
	w = do(r, http.MethodGet, "/api/user/profile", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	profile := envelope(t, w).Data.(map[string]any)
	assert.Equal(t, float64(0), profile["user"].(map[string]any)["freeCount"])
	assert.Equal(t, float64(10), profile["records"].(map[string]any)["completed"])
}

func TestAuthFlow(t *testing.T) {
	r := newTestServer(t)
	token := registerUser(t, r, "user@example.com")

	t.Run("verify", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/auth/verify", token, "")
		require.Equal(t, http.StatusOK, w.Code)
		data := envelope(t, w).Data.(map[string]any)
		assert.Equal(t, true, data["valid"])
	})

	t.Run("login and refresh", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/auth/login", "",
			`{"email":"user@example.com","password":"password123"}`)
		require.Equal(t, http.StatusOK, w.Code)
		tokens := envelope(t, w).Data.(map[string]any)["tokens"].(map[string]any)

		w = do(r, http.MethodPost, "/api/auth/refresh", "",
			fmt.Sprintf(`{"refreshToken":%q}`, tokens["refreshToken"].(string)))
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("an access token is not accepted as a refresh token", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/auth/refresh",
			"", fmt.Sprintf(`{"refreshToken":%q}`, token))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, response.CodeTokenInvalid, envelope(t, w).Error.Code)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/auth/register", "",
			`{"email":"user@example.com","password":"password123"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("protected routes reject missing tokens", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/user/profile", "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHealthAndBanner(t *testing.T) {
	r := newTestServer(t)

	w := do(r, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "up", health["database"])
	assert.Equal(t, "up", health["redis"])

	w = do(r, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/no/such/route", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.CodeNotFound, envelope(t, w).Error.Code)
}
