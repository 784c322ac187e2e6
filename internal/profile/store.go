package profile

import (
	"context"
	"errors"

	"github.com/eleven-am/voice-recorder/internal/shared"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Profile{})
}

func (s *Store) Create(ctx context.Context, p *Profile) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *Store) GetByID(ctx context.Context, id uint) (*Profile, error) {
	var p Profile
	err := s.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) List(ctx context.Context) ([]*Profile, error) {
	var profiles []*Profile
	err := s.db.WithContext(ctx).Order("id").Find(&profiles).Error
	return profiles, err
}
