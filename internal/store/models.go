package store

import (
	"time"

	"gorm.io/datatypes"
)

// ArticleModel is the gorm mapping of the articles table.
type ArticleModel struct {
	ID               string `gorm:"primaryKey"`
	Title            string
	Abstract         string
	Conclusion       string
	Year             int
	Date             string
	Journal          string
	DOI              string `gorm:"column:doi"`
	Language         string
	PageCount        int
	ResearchQuestion string
	Methodology      string
	DataUsed         string
	Results          string
	Limitations      string
	FirstImpression  string
	Notes            string
	Comment          string
	Rating           int
	Read             bool
	Favorite         bool
	FileBaseName     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (ArticleModel) TableName() string { return "articles" }

// EntityModel is a row of any of the six vocabulary tables. Callers pick
// the table with db.Table.
type EntityModel struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

// CounterModel is a row of id_counters.
type CounterModel struct {
	Name      string `gorm:"primaryKey"`
	NextValue int64
}

func (CounterModel) TableName() string { return "id_counters" }

// SettingsModel is the singleton user_settings row.
type SettingsModel struct {
	ID                  uint `gorm:"primaryKey"`
	Theme               string
	Language            string
	DateFormat          string
	Preferences         datatypes.JSONMap
	ExternalSyncEnabled bool
	ExternalSyncPath    string
	CustomStoragePath   string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (SettingsModel) TableName() string { return "user_settings" }
