package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yingxuHou/MeiHuaXinYi/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID           uint       `gorm:"primaryKey"`
	Email        string     `gorm:"uniqueIndex;size:255"`
	PasswordHash string     `gorm:"column:password"`
	Nickname     string     `gorm:"size:64"`
	Avatar       string     `gorm:"size:512"`
	Gender       string     `gorm:"size:16"`
	BirthDate    *time.Time
	FreeCount    int  `gorm:"not null;default:0"`
	TotalCount   int  `gorm:"not null;default:0"`
	IsActive     bool `gorm:"index"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository. Emails are stored lowercase; the
// unique index reports a duplicate as domain.ErrUserAlreadyExists.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	dbUser.Email = strings.ToLower(dbUser.Email)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	user.ID = dbUser.ID
	user.Email = dbUser.Email
	user.CreatedAt = dbUser.CreatedAt
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// UpdateProfile implements domain.UserRepository
func (r *UserRepositoryImpl) UpdateProfile(ctx context.Context, id uint, upd domain.ProfileUpdate) (*domain.User, error) {
	updates := map[string]interface{}{}
	if upd.Nickname != nil {
		updates["nickname"] = *upd.Nickname
	}
	if upd.Gender != nil {
		updates["gender"] = *upd.Gender
	}
	if upd.BirthDate != nil {
		updates["birth_date"] = *upd.BirthDate
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, domain.ErrUserNotFound
		}
	}

	return r.FindByID(ctx, id)
}

// TouchLastLogin implements domain.UserRepository
func (r *UserRepositoryImpl) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).
		Update("last_login_at", at).Error
}

// DecrementFreeCount implements domain.UserRepository. The decrement is a
// single conditional UPDATE: it only matches while free_count is positive, so
// concurrent submissions can never drive the balance negative. The returned
// count is re-read inside the same transaction.
func (r *UserRepositoryImpl) DecrementFreeCount(ctx context.Context, id uint) (int, error) {
	var freeCount int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&DBUser{}).
			Where("id = ? AND free_count > 0", id).
			UpdateColumn("free_count", gorm.Expr("free_count - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrInsufficientBalance
		}
		return tx.Model(&DBUser{}).Where("id = ?", id).
			Select("free_count").Scan(&freeCount).Error
	})
	if err != nil {
		return 0, err
	}
	return freeCount, nil
}

// IncrementFreeCount implements domain.UserRepository
func (r *UserRepositoryImpl) IncrementFreeCount(ctx context.Context, id uint) (int, error) {
	return r.incrementCounter(ctx, id, "free_count")
}

// IncrementTotalCount implements domain.UserRepository
func (r *UserRepositoryImpl) IncrementTotalCount(ctx context.Context, id uint) (int, error) {
	return r.incrementCounter(ctx, id, "total_count")
}

func (r *UserRepositoryImpl) incrementCounter(ctx context.Context, id uint, column string) (int, error) {
	var value int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&DBUser{}).
			Where("id = ?", id).
			UpdateColumn(column, gorm.Expr(column+" + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return tx.Model(&DBUser{}).Where("id = ?", id).
			Select(column).Scan(&value).Error
	})
	if err != nil {
		return 0, fmt.Errorf("incrementing %s: %w", column, err)
	}
	return value, nil
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Nickname:     user.Nickname,
		Avatar:       user.Avatar,
		Gender:       user.Gender,
		BirthDate:    user.BirthDate,
		FreeCount:    user.FreeCount,
		TotalCount:   user.TotalCount,
		IsActive:     user.IsActive,
		LastLoginAt:  user.LastLoginAt,
	}
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:           dbUser.ID,
		Email:        dbUser.Email,
		PasswordHash: dbUser.PasswordHash,
		Nickname:     dbUser.Nickname,
		Avatar:       dbUser.Avatar,
		Gender:       dbUser.Gender,
		BirthDate:    dbUser.BirthDate,
		FreeCount:    dbUser.FreeCount,
		TotalCount:   dbUser.TotalCount,
		IsActive:     dbUser.IsActive,
		LastLoginAt:  dbUser.LastLoginAt,
		CreatedAt:    dbUser.CreatedAt,
		UpdatedAt:    dbUser.UpdatedAt,
	}
}
