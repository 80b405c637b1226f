package app

import (
	"github.com/robfig/cron/v3"
	"github.com/talkincode/stockbook/config"
	"github.com/talkincode/stockbook/internal/controller"
	"github.com/talkincode/stockbook/internal/inventoryapi"
	"gorm.io/gorm"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// CatalogProvider provides the browser sessions and the image store
type CatalogProvider interface {
	Sessions() *controller.Manager
	Images() *inventoryapi.ImageStore
}

// AppContext combines all provider interfaces for full application context
type AppContext interface {
	DBProvider
	ConfigProvider
	SchedulerProvider
	CatalogProvider

	Init(cfg *config.AppConfig) error
	Release()
	MigrateDB(track bool) error
	InitDb()
	DropAll()
	// SnapshotNow writes a CSV snapshot of the catalog and returns its path
	SnapshotNow() (string, error)
	// PurgeSessions closes idle browser sessions and returns how many were closed
	PurgeSessions() int
}
