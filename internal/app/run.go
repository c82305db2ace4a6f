package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dewpoint-server/internal/config"
	"dewpoint-server/internal/db"
	"dewpoint-server/internal/journal"
	"dewpoint-server/internal/migrate"
	"dewpoint-server/internal/mqtt"
	"dewpoint-server/internal/service"
	"dewpoint-server/internal/tcpserver"
)

func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"listenAddr", cfg.ListenAddr(),
		"routeVariant", cfg.RouteVariant,
		"readTimeout", cfg.ReadTimeout,
		"journalPath", cfg.JournalPath,
		"dbMaxOpenConns", cfg.MaxOpenConns,
		"dbMaxIdleConns", cfg.MaxIdleConns,
		"dbConnMaxLifetime", cfg.ConnMaxLifetime,
		"mqttBroker", cfg.MQTTBroker,
		"mqttPort", cfg.MQTTPort,
		"mqttTopic", cfg.MQTTTopic,
	)

	variant, err := service.ParseVariant(cfg.RouteVariant)
	if err != nil {
		return err
	}

	var recorders []service.Recorder

	if cfg.JournalEnabled() {
		dbConn, err := db.Open(cfg, slog.Default())
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := db.Close(dbConn); closeErr != nil {
				slog.Error("db close", "error", closeErr)
			}
		}()

		if err := migrate.Run(dbConn); err != nil {
			return err
		}
		slog.Info("journal ready", "path", cfg.JournalPath)
		recorders = append(recorders, journal.NewRecorder(journal.NewRepository(dbConn)))
	}

	var publisher *mqtt.Publisher
	if cfg.MQTTEnabled() {
		publisher = mqtt.NewPublisher(cfg, slog.Default())

		// A short initial connect keeps startup fast when the broker is down.
		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		err := publisher.Connect(connectCtx)
		connectCancel()
		if err != nil {
			slog.Warn("mqtt connection failed (continuing without mqtt)", "error", err)
		}
		recorders = append(recorders, publisher)
	}

	svc := service.NewService(variant, slog.Default(), recorders...)
	srv := &tcpserver.Server{
		Addr:        cfg.ListenAddr(),
		Handler:     svc,
		ReadTimeout: cfg.ReadTimeout,
		Logger:      slog.Default(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("tcp listening", "addr", cfg.ListenAddr(), "variant", string(variant))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, tcpserver.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("tcp shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, tcpserver.ErrServerClosed) {
		return err
	}

	if publisher != nil {
		slog.Info("mqtt disconnecting")
		publisher.Disconnect()
	}

	return ctx.Err()
}
