package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/yingxuHou/MeiHuaXinYi/domain"
)

// UserServiceImpl implements domain.UserService
type UserServiceImpl struct {
	userRepo   domain.UserRepository
	recordRepo domain.DivinationRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo domain.UserRepository, recordRepo domain.DivinationRepository) domain.UserService {
	return &UserServiceImpl{userRepo: userRepo, recordRepo: recordRepo}
}

// Profile implements domain.UserService
func (s *UserServiceImpl) Profile(ctx context.Context, userID uint) (*domain.User, domain.StatusCounts, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, domain.StatusCounts{}, err
	}

	counts, err := s.recordRepo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, domain.StatusCounts{}, fmt.Errorf("%w: counting records: %v", domain.ErrInternal, err)
	}

	return user, counts, nil
}

// UpdateProfile implements domain.UserService
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, userID uint, upd domain.ProfileUpdate) (*domain.User, error) {
	var fields []domain.FieldError

	if upd.Nickname != nil {
		if n := utf8.RuneCountInString(*upd.Nickname); n < 2 || n > 20 {
			fields = append(fields, domain.FieldError{
				Field:   "nickname",
				Message: "must be between 2 and 20 characters",
			})
		}
	}
	if upd.Gender != nil {
		switch *upd.Gender {
		case "male", "female", "other":
		default:
			fields = append(fields, domain.FieldError{
				Field:   "gender",
				Message: "must be one of male, female, other",
			})
		}
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}

	return s.userRepo.UpdateProfile(ctx, userID, upd)
}

// Stats implements domain.UserService
func (s *UserServiceImpl) Stats(ctx context.Context, user *domain.User) ([]domain.CategoryStat, []domain.DivinationRecord, error) {
	stats, err := s.recordRepo.StatsByCategory(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: aggregating stats: %v", domain.ErrInternal, err)
	}

	recent, err := s.recordRepo.Recent(ctx, user.ID, 5)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: loading recent records: %v", domain.ErrInternal, err)
	}

	return stats, recent, nil
}

// DecrementFree implements domain.UserService
func (s *UserServiceImpl) DecrementFree(ctx context.Context, userID uint) (int, error) {
	return s.userRepo.DecrementFreeCount(ctx, userID)
}

// IncrementTotal implements domain.UserService
func (s *UserServiceImpl) IncrementTotal(ctx context.Context, userID uint) (int, error) {
	return s.userRepo.IncrementTotalCount(ctx, userID)
}
