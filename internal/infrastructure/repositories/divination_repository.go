package repositories

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yingxuHou/MeiHuaXinYi/domain"
)

// HexagramColumn stores a domain.Hexagram as a JSON text column.
type HexagramColumn domain.Hexagram

func (h HexagramColumn) Value() (driver.Value, error) {
	return json.Marshal(domain.Hexagram(h))
}

func (h *HexagramColumn) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	default:
		return fmt.Errorf("unsupported hexagram column type %T", value)
	}
}

// InterpretationColumn stores a domain.Interpretation as a JSON text column.
type InterpretationColumn domain.Interpretation

func (i InterpretationColumn) Value() (driver.Value, error) {
	return json.Marshal(domain.Interpretation(i))
}

func (i *InterpretationColumn) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, i)
	case string:
		return json.Unmarshal([]byte(v), i)
	default:
		return fmt.Errorf("unsupported interpretation column type %T", value)
	}
}

// DBDivination represents the database model for DivinationRecord
type DBDivination struct {
	ID             string `gorm:"primaryKey;size:36"`
	UserID         uint   `gorm:"index:idx_divinations_user_created,priority:1;not null"`
	Question       string `gorm:"size:500;not null"`
	Category       string `gorm:"index;size:32"`
	Hexagram       HexagramColumn       `gorm:"type:text"`
	Interpretation InterpretationColumn `gorm:"type:text"`
	Status         string               `gorm:"index;size:16"`
	IsPaid         bool                 `gorm:"index"`
	CastAt         time.Time
	UserAgent      string    `gorm:"size:512"`
	IPAddress      string    `gorm:"size:64"`
	CreatedAt      time.Time `gorm:"index:idx_divinations_user_created,priority:2"`
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (DBDivination) TableName() string {
	return "divinations"
}

// DivinationRepositoryImpl implements domain.DivinationRepository using GORM
type DivinationRepositoryImpl struct {
	db *gorm.DB
}

// NewDivinationRepository creates a new divination repository
func NewDivinationRepository(db *gorm.DB) domain.DivinationRepository {
	return &DivinationRepositoryImpl{db: db}
}

// Create implements domain.DivinationRepository. A missing ID is assigned here.
func (r *DivinationRepositoryImpl) Create(ctx context.Context, rec *domain.DivinationRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	dbRec := r.domainToDB(rec)
	if err := r.db.WithContext(ctx).Create(dbRec).Error; err != nil {
		return err
	}
	rec.CreatedAt = dbRec.CreatedAt
	rec.UpdatedAt = dbRec.UpdatedAt
	return nil
}

// FindByID implements domain.DivinationRepository. Reads are owner-scoped: a
// record belonging to another user is reported as not found.
func (r *DivinationRepositoryImpl) FindByID(ctx context.Context, id string, userID uint) (*domain.DivinationRecord, error) {
	var dbRec DBDivination
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&dbRec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDivinationNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbRec), nil
}

// List implements domain.DivinationRepository
func (r *DivinationRepositoryImpl) List(ctx context.Context, userID uint, f domain.HistoryFilter) ([]domain.DivinationRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&DBDivination{}).Where("user_id = ?", userID)
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 10
	}

	var dbRecs []DBDivination
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&dbRecs).Error
	if err != nil {
		return nil, 0, err
	}

	records := make([]domain.DivinationRecord, 0, len(dbRecs))
	for i := range dbRecs {
		records = append(records, *r.dbToDomain(&dbRecs[i]))
	}
	return records, total, nil
}

// Recent implements domain.DivinationRepository
func (r *DivinationRepositoryImpl) Recent(ctx context.Context, userID uint, limit int) ([]domain.DivinationRecord, error) {
	if limit < 1 {
		limit = 5
	}
	var dbRecs []DBDivination
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(domain.StatusCompleted)).
		Order("created_at DESC").
		Limit(limit).
		Find(&dbRecs).Error
	if err != nil {
		return nil, err
	}

	records := make([]domain.DivinationRecord, 0, len(dbRecs))
	for i := range dbRecs {
		records = append(records, *r.dbToDomain(&dbRecs[i]))
	}
	return records, nil
}

// Delete implements domain.DivinationRepository. Only the owner can delete.
func (r *DivinationRepositoryImpl) Delete(ctx context.Context, id string, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&DBDivination{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrDivinationNotFound
	}
	return nil
}

// StatsByCategory implements domain.DivinationRepository. The original Mongo
// aggregation pipeline becomes a GROUP BY over (category, status).
func (r *DivinationRepositoryImpl) StatsByCategory(ctx context.Context, userID uint) ([]domain.CategoryStat, error) {
	var stats []domain.CategoryStat
	err := r.db.WithContext(ctx).Model(&DBDivination{}).
		Select("category, status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("category, status").
		Order("category, status").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// CountByStatus implements domain.DivinationRepository
func (r *DivinationRepositoryImpl) CountByStatus(ctx context.Context, userID uint) (domain.StatusCounts, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&DBDivination{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return domain.StatusCounts{}, err
	}

	var counts domain.StatusCounts
	for _, row := range rows {
		counts.Total += row.Count
		switch domain.DivinationStatus(row.Status) {
		case domain.StatusCompleted:
			counts.Completed = row.Count
		case domain.StatusPending:
			counts.Pending = row.Count
		case domain.StatusFailed:
			counts.Failed = row.Count
		}
	}
	return counts, nil
}

func (r *DivinationRepositoryImpl) domainToDB(rec *domain.DivinationRecord) *DBDivination {
	return &DBDivination{
		ID:             rec.ID,
		UserID:         rec.UserID,
		Question:       rec.Question,
		Category:       rec.Category,
		Hexagram:       HexagramColumn(rec.Hexagram),
		Interpretation: InterpretationColumn(rec.Interpretation),
		Status:         string(rec.Status),
		IsPaid:         rec.IsPaid,
		CastAt:         rec.Metadata.CastAt,
		UserAgent:      rec.Metadata.UserAgent,
		IPAddress:      rec.Metadata.IPAddress,
	}
}

func (r *DivinationRepositoryImpl) dbToDomain(dbRec *DBDivination) *domain.DivinationRecord {
	return &domain.DivinationRecord{
		ID:             dbRec.ID,
		UserID:         dbRec.UserID,
		Question:       dbRec.Question,
		Category:       dbRec.Category,
		Hexagram:       domain.Hexagram(dbRec.Hexagram),
		Interpretation: domain.Interpretation(dbRec.Interpretation),
		Status:         domain.DivinationStatus(dbRec.Status),
		IsPaid:         dbRec.IsPaid,
		Metadata: domain.RecordMetadata{
			CastAt:    dbRec.CastAt,
			UserAgent: dbRec.UserAgent,
			IPAddress: dbRec.IPAddress,
		},
		CreatedAt: dbRec.CreatedAt,
		UpdatedAt: dbRec.UpdatedAt,
	}
}
