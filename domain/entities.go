package domain

import "time"

// User represents a registered account. FreeCount is the remaining number of
// divinations the user may submit without payment; TotalCount tracks lifetime
// purchased submissions and is adjusted by an explicit, separate operation.
type User struct {
	ID           uint
	Email        string
	PasswordHash string
	Nickname     string
	Avatar       string
	Gender       string
	BirthDate    *time.Time
	FreeCount    int
	TotalCount   int
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasFreeBalance reports whether the user can still be charged a free
// submission. Advisory only: the repository re-validates atomically.
func (u *User) HasFreeBalance() bool {
	return u.FreeCount > 0
}

// DivinationStatus is the lifecycle state of a DivinationRecord.
type DivinationStatus string

const (
	StatusPending   DivinationStatus = "pending"
	StatusCompleted DivinationStatus = "completed"
	StatusFailed    DivinationStatus = "failed"
)

// Question categories. Unknown or empty categories fall back to CategoryOther.
const (
	CategoryCareer = "career"
	CategoryLove   = "love"
	CategoryHealth = "health"
	CategoryWealth = "wealth"
	CategoryStudy  = "study"
	CategoryFamily = "family"
	CategoryOther  = "other"
)

// Categories lists every valid question category.
var Categories = []string{
	CategoryCareer, CategoryLove, CategoryHealth, CategoryWealth,
	CategoryStudy, CategoryFamily, CategoryOther,
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c string) bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// Line values of a hexagram figure.
const (
	LineYang = "yang"
	LineYin  = "yin"
)

// Figure is a single hexagram configuration: name, symbol, ordinal (1-64)
// and six line values bottom-up.
type Figure struct {
	Name   string   `json:"name"`
	Symbol string   `json:"symbol"`
	Number int      `json:"number"`
	Lines  []string `json:"lines"`
}

// Hexagram is the structured divination result: the original figure, an
// optional changed figure, and the 1-based positions of the changing lines.
type Hexagram struct {
	Original      Figure  `json:"original"`
	Changed       *Figure `json:"changed,omitempty"`
	ChangingLines []int   `json:"changingLines"`
}

// Interpretation is the reading attached to a hexagram.
type Interpretation struct {
	Overall    string   `json:"overall"`
	Advice     []string `json:"advice"`
	Warning    string   `json:"warning,omitempty"`
	Timing     string   `json:"timing"`
	Confidence float64  `json:"confidence"`
}

// RecordMetadata captures the submission context of a divination.
type RecordMetadata struct {
	CastAt    time.Time
	UserAgent string
	IPAddress string
}

// DivinationRecord is one submitted divination. Once completed, hexagram and
// interpretation are immutable; the failed state only overwrites the
// interpretation with an error summary.
type DivinationRecord struct {
	ID             string
	UserID         uint
	Question       string
	Category       string
	Hexagram       Hexagram
	Interpretation Interpretation
	Status         DivinationStatus
	IsPaid         bool
	Metadata       RecordMetadata
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// MarkCompleted returns a copy of the record in the completed state.
// State transitions are pure; persisting the result is the caller's job.
func (d DivinationRecord) MarkCompleted() DivinationRecord {
	d.Status = StatusCompleted
	return d
}

// MarkFailed returns a copy of the record in the terminal failed state, with
// the interpretation replaced by an error summary.
func (d DivinationRecord) MarkFailed(reason string) DivinationRecord {
	d.Status = StatusFailed
	d.Interpretation = Interpretation{
		Overall:    "divination failed: " + reason,
		Advice:     []string{"please try again later"},
		Timing:     "not favorable right now",
		Confidence: 0,
	}
	return d
}

// AuthResult represents a successful authentication outcome.
type AuthResult struct {
	User         *User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// SubmissionResult is the unified outcome of a divination submission: the
// persisted record plus the balance as stored after the charge.
type SubmissionResult struct {
	Record     *DivinationRecord
	FreeCount  int
	TotalCount int
}

// CategoryStat is one bucket of the per-category/status aggregation.
type CategoryStat struct {
	Category string `json:"category"`
	Status   string `json:"status"`
	Count    int64  `json:"count"`
}

// StatusCounts summarizes a user's records by lifecycle state.
type StatusCounts struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
	Failed    int64 `json:"failed"`
}
