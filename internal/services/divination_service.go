package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/yingxuHou/MeiHuaXinYi/domain"
)

// Question length bounds, counted in characters after trimming.
const (
	questionMinLen = 5
	questionMaxLen = 500
)

// DivinationServiceImpl implements domain.DivinationService
type DivinationServiceImpl struct {
	userRepo   domain.UserRepository
	recordRepo domain.DivinationRepository
	oracle     domain.Oracle
	genTimeout time.Duration
	logger     *zap.Logger
}

// NewDivinationService creates the divination service. genTimeout bounds the
// generation step; a stuck oracle fails the submission instead of hanging it.
func NewDivinationService(
	userRepo domain.UserRepository,
	recordRepo domain.DivinationRepository,
	oracle domain.Oracle,
	genTimeout time.Duration,
	logger *zap.Logger,
) domain.DivinationService {
	return &DivinationServiceImpl{
		userRepo:   userRepo,
		recordRepo: recordRepo,
		oracle:     oracle,
		genTimeout: genTimeout,
		logger:     logger,
	}
}

func validateSubmit(in *domain.SubmitInput) error {
	var fields []domain.FieldError

	in.Question = strings.TrimSpace(in.Question)
	n := utf8.RuneCountInString(in.Question)
	if n < questionMinLen || n > questionMaxLen {
		fields = append(fields, domain.FieldError{
			Field:   "question",
			Message: fmt.Sprintf("must be between %d and %d characters", questionMinLen, questionMaxLen),
		})
	}

	if in.Category == "" {
		in.Category = domain.CategoryOther
	} else if !domain.ValidCategory(in.Category) {
		fields = append(fields, domain.FieldError{
			Field:   "category",
			Message: "unknown category",
		})
	}

	if len(fields) > 0 {
		return domain.NewValidationError(fields...)
	}
	return nil
}

// Submit implements domain.DivinationService. The charge is an atomic
// conditional decrement taken before the record is persisted; a submission
// that loses the race fails closed with ErrInsufficientBalance even though
// the balance guard let it through. If persisting the record fails after a
// successful charge, the charge is refunded.
func (s *DivinationServiceImpl) Submit(ctx context.Context, user *domain.User, in domain.SubmitInput) (*domain.SubmissionResult, error) {
	if err := validateSubmit(&in); err != nil {
		return nil, err
	}

	now := time.Now()

	genCtx, cancel := context.WithTimeout(ctx, s.genTimeout)
	defer cancel()

	hex, err := s.oracle.CastHexagram(genCtx, in.Question, now)
	if err != nil {
		return nil, fmt.Errorf("%w: casting hexagram: %v", domain.ErrInternal, err)
	}
	interp, err := s.oracle.Interpret(genCtx, in.Question, hex)
	if err != nil {
		return nil, fmt.Errorf("%w: interpreting hexagram: %v", domain.ErrInternal, err)
	}

	// isPaid is decided on the pre-transaction snapshot: a user whose free
	// balance is already exhausted submits on the paid path.
	isPaid := !user.HasFreeBalance()

	freeCount := user.FreeCount
	if !isPaid {
		freeCount, err = s.userRepo.DecrementFreeCount(ctx, user.ID)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientBalance) {
				return nil, domain.ErrInsufficientBalance
			}
			return nil, fmt.Errorf("%w: charging balance: %v", domain.ErrInternal, err)
		}
	}

	rec := domain.DivinationRecord{
		UserID:         user.ID,
		Question:       in.Question,
		Category:       in.Category,
		Hexagram:       *hex,
		Interpretation: *interp,
		Status:         domain.StatusPending,
		IsPaid:         isPaid,
		Metadata: domain.RecordMetadata{
			CastAt:    now,
			UserAgent: in.UserAgent,
			IPAddress: in.IPAddress,
		},
	}
	// generation is synchronous, so the record completes before it is stored
	rec = rec.MarkCompleted()

	if err := s.recordRepo.Create(ctx, &rec); err != nil {
		if !isPaid {
			if refunded, rerr := s.userRepo.IncrementFreeCount(ctx, user.ID); rerr != nil {
				s.logger.Error("failed to refund charge after persist failure",
					zap.Uint("user_id", user.ID), zap.Error(rerr))
			} else {
				freeCount = refunded
			}
		}
		return nil, fmt.Errorf("%w: persisting record: %v", domain.ErrInternal, err)
	}

	// the echoed balance is the stored post-charge value, not a local guess
	return &domain.SubmissionResult{
		Record:     &rec,
		FreeCount:  freeCount,
		TotalCount: user.TotalCount,
	}, nil
}

// Result implements domain.DivinationService
func (s *DivinationServiceImpl) Result(ctx context.Context, userID uint, id string) (*domain.DivinationRecord, error) {
	return s.recordRepo.FindByID(ctx, id, userID)
}

// History implements domain.DivinationService
func (s *DivinationServiceImpl) History(ctx context.Context, userID uint, f domain.HistoryFilter) (*domain.HistoryPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}

	records, total, err := s.recordRepo.List(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("%w: listing history: %v", domain.ErrInternal, err)
	}

	return &domain.HistoryPage{
		Records: records,
		Total:   total,
		Page:    f.Page,
		Limit:   f.Limit,
	}, nil
}

// Delete implements domain.DivinationService
func (s *DivinationServiceImpl) Delete(ctx context.Context, userID uint, id string) error {
	return s.recordRepo.Delete(ctx, id, userID)
}

// Stats implements domain.DivinationService
func (s *DivinationServiceImpl) Stats(ctx context.Context, user *domain.User) ([]domain.CategoryStat, error) {
	stats, err := s.recordRepo.StatsByCategory(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregating stats: %v", domain.ErrInternal, err)
	}
	return stats, nil
}
