package app

import (
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/talkincode/stockbook/internal/inventoryapi"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, err := time.LoadLocation(a.appConfig.System.Location)
	if err != nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	_, err = a.sched.AddFunc("@every 10m", func() {
		a.PurgeSessions()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	if a.gormDB != nil {
		_, err = a.sched.AddFunc("@daily", a.SchedSnapshotTask)
		if err != nil {
			zap.S().Errorf("init job error %s", err.Error())
		}
	}

	a.sched.Start()
}

// PurgeSessions closes browser sessions idle for longer than SessionIdleTimeout.
func (a *Application) PurgeSessions() int {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	if a.manager == nil {
		return 0
	}
	return a.manager.Purge(SessionIdleTimeout)
}

// SchedSnapshotTask daily catalog export
func (a *Application) SchedSnapshotTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	name, err := a.SnapshotNow()
	if err != nil {
		zap.L().Error("catalog snapshot failed", zap.String("namespace", "jobs"), zap.Error(err))
		return
	}
	zap.L().Info("catalog snapshot written", zap.String("namespace", "jobs"), zap.String("file", name))
}

// SnapshotNow exports the catalog into the backup directory.
func (a *Application) SnapshotNow() (string, error) {
	if a.gormDB == nil {
		return "", errors.New("no database: the bundled backend is disabled")
	}
	return inventoryapi.WriteSnapshot(a.gormDB, a.appConfig.GetBackupDir(), time.Now())
}
