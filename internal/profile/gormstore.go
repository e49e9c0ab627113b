package profile

import (
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type profileRecord struct {
	ID      string `gorm:"primaryKey"`
	Name    string
	Avatar  string
	Color   string
	History datatypes.JSON
}

func (profileRecord) TableName() string { return "profiles" }

// GormStore persists profiles in Postgres, with the match history held
// as a JSON column.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&profileRecord{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Load(id string) (Profile, error) {
	var rec profileRecord
	err := s.db.First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	p := Profile{ID: rec.ID, Name: rec.Name, Avatar: rec.Avatar, Color: rec.Color}
	if len(rec.History) > 0 {
		if err := json.Unmarshal(rec.History, &p.History); err != nil {
			return Profile{}, err
		}
	}
	return p, nil
}

func (s *GormStore) Save(p Profile) error {
	history, err := json.Marshal(p.History)
	if err != nil {
		return err
	}
	rec := profileRecord{
		ID:      p.ID,
		Name:    p.Name,
		Avatar:  p.Avatar,
		Color:   p.Color,
		History: history,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&rec).Error
}
