package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/jackc/pgx/v5"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wrenzh/agrolux-panel/internal/pkg/config"
	"github.com/wrenzh/agrolux-panel/internal/pkg/contxt"
	"github.com/wrenzh/agrolux-panel/internal/pkg/database"
	"github.com/wrenzh/agrolux-panel/internal/pkg/database/migration"
	"github.com/wrenzh/agrolux-panel/internal/pkg/lighting"
	"github.com/wrenzh/agrolux-panel/internal/pkg/model"
	"github.com/wrenzh/agrolux-panel/internal/pkg/mqtt"
	"github.com/wrenzh/agrolux-panel/internal/pkg/panel"
	"github.com/wrenzh/agrolux-panel/internal/pkg/publisher"
	"github.com/wrenzh/agrolux-panel/internal/pkg/server"
)

func PanelCommand(ctx *cli.Context) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	applyFlags(ctx, cfg)

	logCfg := zap.NewProductionConfig()
	logCfg.Level, err = zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logCfg.OutputPaths = []string{"stdout"}
	logCfg.ErrorOutputPaths = []string{"stdout"}
	logCfg.Sampling = nil
	logger := zap.Must(logCfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)))
	defer func() {
		_ = logger.Sync() // flushes buffer, if any.
	}()

	svc := lighting.New(cfg.Lighting.BaseURL,
		lighting.WithHTTPClient(&http.Client{Timeout: cfg.Lighting.HTTPTimeout}),
		lighting.WithSerialTimeout(cfg.Lighting.SerialTimeout),
		lighting.WithLogger(logger))

	errorChan := make(chan error, 1000)
	return run(ctx.Context, cfg, svc, errorChan, logger)
}

func applyFlags(ctx *cli.Context, cfg *config.Config) {
	if ctx.IsSet("lighting-url") {
		cfg.Lighting.BaseURL = ctx.String("lighting-url")
	}
	if ctx.IsSet("serial-timeout") {
		cfg.Lighting.SerialTimeout = ctx.Float64("serial-timeout")
	}
	if ctx.IsSet("mqtt-host") {
		cfg.Mqtt.Host = ctx.String("mqtt-host")
	}
	if ctx.IsSet("mqtt-user") {
		cfg.Mqtt.Username = ctx.String("mqtt-user")
	}
	if ctx.IsSet("mqtt-pass") {
		cfg.Mqtt.Password = ctx.String("mqtt-pass")
	}
	if ctx.IsSet("database-url") {
		cfg.Database.DSN = ctx.String("database-url")
	}
	if ctx.IsSet("migrations-folder") {
		cfg.Database.MigrationsFolder = ctx.String("migrations-folder")
	}
	if ctx.IsSet("retention-days") {
		cfg.Database.RetentionDays = ctx.Int("retention-days")
	}
	if ctx.IsSet("listen-address") {
		cfg.Server.ListenAddress = ctx.String("listen-address")
	}
	if ctx.IsSet("password-hash") {
		cfg.Server.PasswordHash = ctx.String("password-hash")
	}
	if ctx.IsSet("jwt-secret") {
		cfg.Server.JwtSecret = ctx.String("jwt-secret")
	}
	if ctx.IsSet("poll-schedule") {
		cfg.Server.PollSchedule = ctx.String("poll-schedule")
	}
	if ctx.IsSet("log-level") {
		cfg.LogLevel = ctx.String("log-level")
	}
}

func run(ctx context.Context, cfg *config.Config, svc LightingService, errorChan chan error, logger *zap.Logger) error {
	eg, ctx := errgroup.WithContext(ctx)
	zap.ReplaceGlobals(logger)

	directory := panel.NewDirectory(svc, logger)
	controlMode := panel.NewControlModeView(svc, logger)
	dimming := panel.NewDimmingView(svc, logger)
	sensors := panel.NewSensorsView(svc, readingFanout{}, logger)
	directory.Subscribe(controlMode)
	directory.Subscribe(dimming)

	if cfg.Database != nil && cfg.Database.DSN != "" {
		if err := migration.Migrate(cfg.Database.DSN, cfg.Database.MigrationsFolder); err != nil {
			return err
		}
		conn, err := pgx.Connect(ctx, cfg.Database.DSN)
		if err != nil {
			return err
		}
		store := database.New(conn, cfg.Database.RetentionDays)
		defer store.Close()
		if err := publisher.RegisterPublisher("postgres", store); err != nil {
			return err
		}
		directory.Subscribe(store)

		eg.Go(func() error {
			return cronDbCleanup(ctx, store, cfg.Database.CleanupSchedule, errorChan)
		})
	}

	if cfg.Mqtt != nil && cfg.Mqtt.Host != "" {
		opts := paho_mqtt.NewClientOptions().
			AddBroker(cfg.Mqtt.Host).
			SetUsername(cfg.Mqtt.Username).
			SetPassword(cfg.Mqtt.Password).
			SetClientID("agrolux-panel")
		mq := mqtt.New(paho_mqtt.NewClient(opts), cfg.Mqtt.Manufacturer, cfg.Mqtt.Model)
		if err := mq.Connect(); err != nil {
			return err
		}
		if err := publisher.RegisterPublisher("mqtt", mq); err != nil {
			return err
		}
		directory.Subscribe(mq)
	}

	// Subscriptions are in place; resolve the transmitter and pull the sensor
	// catalog. Neither failure is fatal: the panel serves disabled views and
	// retries through rescan and the poll schedule.
	if uid := directory.Resolve(ctx); !uid.Valid() {
		logger.Warn("no usable transmitter yet", zap.String("uid", uid.String()))
	}
	if err := sensors.Load(ctx); err != nil {
		logger.Warn("sensor catalog not loaded yet", zap.Error(err))
	}
	if err := publisher.RegisterSensors(sensors.Sensors()...); err != nil {
		return err
	}

	auth, err := server.NewAuth(cfg.Server.PasswordHash, cfg.Server.JwtSecret)
	if err != nil {
		return err
	}

	eg.Go(func() error {
		return pollMeasurements(ctx, sensors, cfg.Server.PollSchedule)
	})

	eg.Go(func() error {
		srv := &http.Server{
			Handler:      server.New(directory, controlMode, dimming, sensors, auth).Handler(),
			Addr:         cfg.Server.ListenAddress,
			WriteTimeout: 15 * time.Second,
			ReadTimeout:  15 * time.Second,
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		// handle any async errors from the cron jobs
		for {
			select {
			case err := <-errorChan:
				logger.Error("async error", zap.Error(err))
				return err
			case <-ctx.Done():
				logger.Info("context done")
				return ctx.Err()
			}
		}
	})

	return eg.Wait()
}

var errCron = errors.New("cron error")

// readingFanout bridges fresh view measurements into the publisher registry.
type readingFanout struct{}

func (readingFanout) PublishReading(ctx context.Context, reading model.Reading) {
	_ = publisher.PublishReadings(ctx, reading)
}

func cronDbCleanup(ctx context.Context, store *database.Store, schedule string, errChan chan error) error {
	if err := store.Cleanup(ctx); err != nil {
		return err
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if err := store.Cleanup(contxt.NewContext(time.Minute)); err != nil {
			zap.L().Error("error cleaning up database", zap.Error(err))
			errChan <- errCron
			return
		}
		zap.L().Info("reading history pruned")
	}); err != nil {
		return err
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}

// pollMeasurements refreshes every sensor on the configured schedule so the
// telemetry sinks see values even when nobody touches the panel.
func pollMeasurements(ctx context.Context, sensors *panel.SensorsView, schedule string) error {
	refresh := func() {
		if err := sensors.Load(ctx); err != nil {
			zap.L().Warn("sensor catalog load failed", zap.Error(err))
			return
		}
		for _, s := range sensors.Sensors() {
			if _, err := sensors.RefreshMeasurement(ctx, s.ID); err != nil {
				zap.L().Warn("scheduled refresh failed", zap.Int("sensor_id", s.ID), zap.Error(err))
			}
		}
	}
	refresh()

	c := cron.New()
	if _, err := c.AddFunc(schedule, refresh); err != nil {
		return err
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}
