package domain

import (
	"context"
	"time"
)

// ProfileUpdate carries the mutable profile fields. Nil pointers leave the
// stored value untouched.
type ProfileUpdate struct {
	Nickname  *string
	Gender    *string
	BirthDate *time.Time
}

// HistoryFilter narrows and pages a user's divination history.
type HistoryFilter struct {
	Category string
	Status   string
	Page     int
	Limit    int
}

// UserRepository defines user data access operations.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	UpdateProfile(ctx context.Context, id uint, upd ProfileUpdate) (*User, error)
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error

	// DecrementFreeCount atomically decrements free_count by one where it is
	// still positive and returns the stored value after the write. It returns
	// ErrInsufficientBalance when no row matched, even if the caller's
	// snapshot said otherwise.
	DecrementFreeCount(ctx context.Context, id uint) (int, error)

	// IncrementFreeCount refunds one free submission and returns the stored
	// value after the write.
	IncrementFreeCount(ctx context.Context, id uint) (int, error)

	// IncrementTotalCount bumps the lifetime paid counter and returns the
	// stored value after the write.
	IncrementTotalCount(ctx context.Context, id uint) (int, error)
}

// DivinationRepository defines divination record data access operations.
// All reads and deletes are scoped to the owning user.
type DivinationRepository interface {
	Create(ctx context.Context, rec *DivinationRecord) error
	FindByID(ctx context.Context, id string, userID uint) (*DivinationRecord, error)
	List(ctx context.Context, userID uint, f HistoryFilter) ([]DivinationRecord, int64, error)
	Recent(ctx context.Context, userID uint, limit int) ([]DivinationRecord, error)
	Delete(ctx context.Context, id string, userID uint) error
	StatsByCategory(ctx context.Context, userID uint) ([]CategoryStat, error)
	CountByStatus(ctx context.Context, userID uint) (StatusCounts, error)
}

// TokenClaims is the verified payload of an access or refresh token.
type TokenClaims struct {
	UserID    uint
	Email     string
	TokenType string
	IssuedAt  int64
	ExpiresAt int64
}

// Token type markers carried in the typ claim and enforced at verify time.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenService issues and verifies signed, time-limited tokens bound to a
// user identity. Verification is stateless and side-effect free.
type TokenService interface {
	IssueAccessToken(user *User) (string, error)
	IssueRefreshToken(user *User) (string, error)
	// VerifyAccessToken rejects tokens whose typ claim is not "access".
	VerifyAccessToken(token string) (*TokenClaims, error)
	// VerifyRefreshToken rejects tokens whose typ claim is not "refresh".
	VerifyRefreshToken(token string) (*TokenClaims, error)
	// AccessTTL reports the configured access token validity window.
	AccessTTL() time.Duration
}

// PasswordService defines credential hashing operations.
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// Oracle produces hexagrams and their interpretations. Implementations are
// pure functions of their inputs from the pipeline's perspective; the context
// bounds the call so a stuck generator fails the transaction instead of
// hanging it.
type Oracle interface {
	CastHexagram(ctx context.Context, question string, at time.Time) (*Hexagram, error)
	Interpret(ctx context.Context, question string, hex *Hexagram) (*Interpretation, error)
}

// AuthService defines authentication business logic.
type AuthService interface {
	Register(ctx context.Context, email, password, nickname string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	ResolveUser(ctx context.Context, accessToken string) (*User, error)
}

// SubmitInput is the request payload of a divination submission plus the
// client metadata captured alongside the record.
type SubmitInput struct {
	Question  string
	Category  string
	UserAgent string
	IPAddress string
}

// HistoryPage is one page of a user's divination history.
type HistoryPage struct {
	Records []DivinationRecord
	Total   int64
	Page    int
	Limit   int
}

// DivinationService defines the balance-gated divination operations.
type DivinationService interface {
	Submit(ctx context.Context, user *User, in SubmitInput) (*SubmissionResult, error)
	Result(ctx context.Context, userID uint, id string) (*DivinationRecord, error)
	History(ctx context.Context, userID uint, f HistoryFilter) (*HistoryPage, error)
	Delete(ctx context.Context, userID uint, id string) error
	Stats(ctx context.Context, user *User) ([]CategoryStat, error)
}

// UserService defines profile and balance operations.
type UserService interface {
	Profile(ctx context.Context, userID uint) (*User, StatusCounts, error)
	UpdateProfile(ctx context.Context, userID uint, upd ProfileUpdate) (*User, error)
	Stats(ctx context.Context, user *User) ([]CategoryStat, []DivinationRecord, error)
	DecrementFree(ctx context.Context, userID uint) (int, error)
	IncrementTotal(ctx context.Context, userID uint) (int, error)
}
