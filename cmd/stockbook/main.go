package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/talkincode/stockbook/config"
	"github.com/talkincode/stockbook/internal/app"
	"github.com/talkincode/stockbook/internal/inventoryapi"
	"github.com/talkincode/stockbook/internal/webserver"
	"github.com/talkincode/stockbook/internal/webui"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	conffile = flag.String("c", "", "config yaml file")
	initdb   = flag.Bool("initdb", false, "drop and recreate the product table, then exit")
	snapshot = flag.Bool("snapshot", false, "write a CSV snapshot of the catalog, then exit")
)

func main() {
	flag.Parse()

	cfg := config.LoadConfig(*conffile)
	var application app.AppContext = app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer application.Release()

	switch {
	case *initdb:
		if application.DB() == nil {
			zap.S().Fatal("initdb needs the bundled backend (api.enabled)")
		}
		application.InitDb()
		zap.S().Info("database initialized")
		return
	case *snapshot:
		name, err := application.SnapshotNow()
		if err != nil {
			zap.S().Fatal(err)
		}
		zap.S().Infof("snapshot written to %s", name)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	if cfg.Api.Enabled {
		g.Go(func() error {
			e := webserver.NewEcho("inventory", cfg.System.Debug)
			inventoryapi.Register(e, application.DB(), application.Images())
			return webserver.Serve(ctx, e, net.JoinHostPort(cfg.Api.Host, strconv.Itoa(cfg.Api.Port)))
		})
	}
	g.Go(func() error {
		e := webserver.NewEcho("webui", cfg.System.Debug)
		webui.Register(e, application.Sessions(), cfg.Web.Secret)
		return webserver.Serve(ctx, e, net.JoinHostPort(cfg.Web.Host, strconv.Itoa(cfg.Web.Port)))
	})

	if err := g.Wait(); err != nil {
		zap.S().Error(err)
		application.Release()
		os.Exit(1)
	}
}
