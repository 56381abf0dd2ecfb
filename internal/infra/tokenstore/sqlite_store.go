package tokenstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"pricing/internal/domain/entity"
	domainerrors "pricing/internal/domain/errors"
	"pricing/internal/domain/service"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// entryModel is one persisted key.
type entryModel struct {
	Name      string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (entryModel) TableName() string {
	return "client_storage"
}

// sqliteStore implements service.TokenStore on top of gorm.
type sqliteStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewSQLiteStore is the constructor for sqliteStore. db must already be migrated.
func NewSQLiteStore(db *gorm.DB, logger *slog.Logger) service.TokenStore {
	return &sqliteStore{
		db:     db,
		logger: logger,
	}
}

func (s *sqliteStore) SetToken(ctx context.Context, token string) error {
	return s.put(ctx, KeyAccessToken, token)
}

func (s *sqliteStore) Token(ctx context.Context) (string, bool, error) {
	return s.get(ctx, KeyAccessToken)
}

func (s *sqliteStore) SetUser(ctx context.Context, profile *entity.Profile) error {
	if profile == nil {
		return s.delete(ctx, KeyUser)
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return errors.Wrap(err, "failed to encode user")
	}

	return s.put(ctx, KeyUser, string(raw))
}

func (s *sqliteStore) User(ctx context.Context) (*entity.Profile, bool, error) {
	raw, ok, err := s.get(ctx, KeyUser)
	if err != nil || !ok {
		return nil, false, err
	}

	profile, ok := decodeProfile(raw)
	if !ok {
		s.logger.WarnContext(ctx, "Ignoring undecodable stored user", slog.Int("length", len(raw)))

		return nil, false, nil
	}

	return profile, true, nil
}

func (s *sqliteStore) Clear(ctx context.Context) error {
	err := s.db.WithContext(ctx).
		Where("name IN ?", []string{KeyAccessToken, KeyUser}).
		Delete(&entryModel{}).Error
	if err != nil {
		return domainerrors.ErrStorageFailed.WrapMessage(err.Error())
	}

	return nil
}

func (s *sqliteStore) put(ctx context.Context, key, value string) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entryModel{Name: key, Value: value}).Error
	if err != nil {
		return domainerrors.ErrStorageFailed.WrapMessage(err.Error())
	}

	return nil
}

func (s *sqliteStore) get(ctx context.Context, key string) (string, bool, error) {
	var entry entryModel

	err := s.db.WithContext(ctx).Where("name = ?", key).Take(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}

		return "", false, domainerrors.ErrStorageFailed.WrapMessage(err.Error())
	}

	return entry.Value, true, nil
}

func (s *sqliteStore) delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("name = ?", key).Delete(&entryModel{}).Error; err != nil {
		return domainerrors.ErrStorageFailed.WrapMessage(err.Error())
	}

	return nil
}

// decodeProfile rejects anything that is not a JSON object, such as "undefined" or "null".
func decodeProfile(raw string) (*entity.Profile, bool) {
	if strings.TrimSpace(raw) == "null" {
		return nil, false
	}

	var profile entity.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, false
	}

	return &profile, true
}
