package main

//	@title			VelocityCMDB API
//	@version		0.1.0
//	@description	Network state correlation over captured device output.
//	@BasePath		/api/v1

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	_ "github.com/velocitycmdb/velocitycmdb/api/swagger"
	"github.com/velocitycmdb/velocitycmdb/internal/capture"
	"github.com/velocitycmdb/velocitycmdb/internal/config"
	"github.com/velocitycmdb/velocitycmdb/internal/locator"
	"github.com/velocitycmdb/velocitycmdb/internal/server"
	"github.com/velocitycmdb/velocitycmdb/internal/store"
	"github.com/velocitycmdb/velocitycmdb/internal/version"
)

func main() {
	// Subcommand dispatch (before flag.Parse).
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "serve":
			os.Args = append(os.Args[:1], os.Args[2:]...)
		case "locate":
			exitOn(runLocate(os.Args[2:], os.Stdout))
			return
		case "import":
			exitOn(runImport(os.Args[2:], os.Stdout))
			return
		case "version":
			fmt.Println(version.Info())
			return
		}
	}

	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	exitOn(serve(*configPath))
}

func exitOn(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "velocitycmdb: %v\n", err)
		os.Exit(1)
	}
}

// app is the wiring shared by every subcommand.
type app struct {
	viper    *viper.Viper
	settings *config.Settings
	logger   *zap.Logger
	db       *store.SQLiteStore
	captures *capture.Store
	arp      *capture.ARPStore
}

// setup loads configuration, opens and migrates the capture store, and
// attaches the ARP datastore when one is configured.
func setup(ctx context.Context, configPath string) (*app, error) {
	v, err := server.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	settings, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	logger, err := config.NewLogger(v)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	if f := v.ConfigFileUsed(); f != "" {
		logger.Info("configuration loaded",
			zap.String("component", "config"),
			zap.String("source", f),
		)
	} else {
		logger.Debug("no configuration file found, using defaults",
			zap.String("component", "config"),
		)
	}

	a := &app{viper: v, settings: settings, logger: logger}

	db, err := store.New(settings.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.db = db

	if err := db.CheckVersion(ctx, version.Short()); err != nil {
		a.close()
		return nil, err
	}
	if err := db.Migrate(ctx, "capture", capture.Migrations()); err != nil {
		a.close()
		return nil, fmt.Errorf("migrate capture store: %w", err)
	}
	a.captures = capture.NewStore(db.DB())
	logger.Info("database initialized",
		zap.String("component", "database"),
		zap.String("path", settings.Database.Path),
	)

	if path := settings.Locator.ARPDatabase; path != "" {
		arp, err := capture.OpenARPStore(path)
		switch {
		case errors.Is(err, capture.ErrARPStoreMissing):
			logger.Warn("arp datastore not found, using snapshots only",
				zap.String("component", "locator"),
				zap.String("path", path),
			)
		case err != nil:
			a.close()
			return nil, err
		default:
			a.arp = arp
			logger.Info("arp datastore attached",
				zap.String("component", "locator"),
				zap.String("path", path),
			)
		}
	}
	return a, nil
}

func (a *app) correlator() *locator.Correlator {
	c := locator.NewCorrelator(a.captures, a.logger.Named("locator"))
	if a.arp != nil {
		c.SetARPSource(a.arp)
	}
	return c
}

func (a *app) close() {
	if a.arp != nil {
		_ = a.arp.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
	_ = a.logger.Sync()
}

func serve(configPath string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := setup(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close()
	logger := a.logger

	logger.Info("VelocityCMDB server starting", zap.String("version", version.Short()))

	srvCfg, err := server.ServerConfig(a.viper)
	if err != nil {
		return err
	}

	locatorHandler := locator.NewHandler(a.correlator(), a.captures, a.settings.Locator.Timeout, logger.Named("locator"))
	captureHandler := capture.NewHandler(a.captures, logger.Named("capture"))

	var pruner *capture.Pruner
	if a.settings.Capture.Retention > 0 {
		pruner = capture.NewPruner(a.captures, a.settings.Capture.Retention, a.settings.Capture.PruneInterval, logger.Named("capture"))
		pruner.Start(ctx)
	}

	readyCheck := server.ReadinessChecker(func(ctx context.Context) error {
		return a.db.DB().PingContext(ctx)
	})
	srv := server.New(srvCfg, logger, readyCheck, locatorHandler, captureHandler)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	logger.Info("VelocityCMDB server ready", zap.String("addr", srvCfg.Addr()))

	// Wait for shutdown signal or a listener failure.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if pruner != nil {
		pruner.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("VelocityCMDB server stopped")
	return nil
}
