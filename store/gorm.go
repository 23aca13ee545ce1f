package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"whiteboard/diagram"
)

// Board is the row a project's snapshot is stored in.
type Board struct {
	gorm.Model
	Project string `gorm:"not null;size:200;uniqueIndex"`
	Data    string `gorm:"not null;type:text"`
	Nodes   int
	Edges   int
}

// GormStore keeps snapshots in a SQL database.
type GormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// OpenSQLite opens (and migrates) a sqlite database file.
func OpenSQLite(path string, logger *zap.Logger) (*GormStore, error) {
	return openGorm(sqlite.Open(path), logger)
}

// OpenPostgres opens (and migrates) a postgres database.
func OpenPostgres(dsn string, logger *zap.Logger) (*GormStore, error) {
	return openGorm(postgres.Open(dsn), logger)
}

func openGorm(dialector gorm.Dialector, logger *zap.Logger) (*GormStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.AutoMigrate(&Board{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return &GormStore{db: db, logger: logger}, nil
}

// Save upserts the snapshot for project.
func (g *GormStore) Save(ctx context.Context, project string, s diagram.Snapshot) error {
	data, err := diagram.MarshalSnapshot(s)
	if err != nil {
		return fmt.Errorf("encode %s: %w", project, err)
	}
	row := Board{Project: project, Data: string(data), Nodes: len(s.Nodes), Edges: len(s.Edges)}
	err = g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "nodes", "edges", "updated_at", "deleted_at"}),
	}).Create(&row).Error
	if err != nil {
		g.logger.Error("save failed", zap.String("project", project), zap.Error(err))
		return fmt.Errorf("save %s: %w", project, err)
	}
	return nil
}

// Load reads the snapshot for project.
func (g *GormStore) Load(ctx context.Context, project string) (diagram.Snapshot, error) {
	var row Board
	err := g.db.WithContext(ctx).Where("project = ?", project).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return diagram.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return diagram.Snapshot{}, fmt.Errorf("load %s: %w", project, err)
	}
	s, err := diagram.UnmarshalSnapshot([]byte(row.Data))
	if err != nil {
		return diagram.Snapshot{}, fmt.Errorf("load %s: %w", project, err)
	}
	return s, nil
}

// List returns stored project ids, sorted.
func (g *GormStore) List(ctx context.Context) ([]string, error) {
	var out []string
	if err := g.db.WithContext(ctx).Model(&Board{}).Order("project").Pluck("project", &out).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

// Close releases the connection pool.
func (g *GormStore) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
