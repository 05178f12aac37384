package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	cardH "github.com/fekuna/cardmap-service/internal/card/handler"
	cardUCPkg "github.com/fekuna/cardmap-service/internal/card/usecase"
	catH "github.com/fekuna/cardmap-service/internal/category/handler"
	catUCPkg "github.com/fekuna/cardmap-service/internal/category/usecase"
	merchantH "github.com/fekuna/cardmap-service/internal/merchant/handler"
	merchantUCPkg "github.com/fekuna/cardmap-service/internal/merchant/usecase"
	"github.com/fekuna/cardmap-service/internal/refcache"
	refH "github.com/fekuna/cardmap-service/internal/reference/handler"
	refListenerPkg "github.com/fekuna/cardmap-service/internal/reference/listener"
	refUCPkg "github.com/fekuna/cardmap-service/internal/reference/usecase"
	"github.com/fekuna/cardmap-service/internal/server"
	"github.com/fekuna/cardmap-service/pkg/broker"
	"github.com/fekuna/cardmap-service/pkg/i18n"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and gRPC servers",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(true, true)
	if err != nil {
		return err
	}
	defer a.Close()
	log := a.log

	tr, err := i18n.NewTranslator()
	if err != nil {
		return fmt.Errorf("load translations: %w", err)
	}

	loc, err := time.LoadLocation(a.cfg.Cache.SweepTZ)
	if err != nil {
		return fmt.Errorf("load sweep time zone: %w", err)
	}
	sweeper, err := refcache.NewSweeper(a.cache, a.cfg.Cache.SweepAt, loc, log)
	if err != nil {
		return err
	}

	// Use cases
	refUC := refUCPkg.NewReferenceUseCase(a.cardRepo, a.categoryRepo, a.cache, log)
	merchantUC := merchantUCPkg.NewMerchantUseCase(a.merchantRepo, a.cardRepo, a.categoryRepo, a.cache, a.cfg.Discovery, log)
	cardUC := cardUCPkg.NewCardUseCase(a.cardRepo, a.cache, log)
	catUC := catUCPkg.NewCategoryUseCase(a.categoryRepo, a.cache, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweeper.Start(ctx)

	if a.cfg.Kafka.Enabled {
		consumer := broker.NewKafkaConsumer(broker.KafkaConfig{
			Brokers: a.cfg.Kafka.Brokers,
			Topic:   a.cfg.Kafka.Topic,
			GroupID: a.cfg.Kafka.GroupID,
		})
		defer consumer.Close()
		log.Info("Connected to Kafka Consumer", zap.Strings("brokers", a.cfg.Kafka.Brokers), zap.String("topic", a.cfg.Kafka.Topic))
		go refListenerPkg.NewCatalogListener(consumer, refUC, log).Start(ctx)
	}

	e := server.NewHTTP(serviceName, tr, log,
		merchantH.NewMerchantHandler(merchantUC, a.cfg.Discovery, log),
		cardH.NewCardHandler(cardUC, refUC, log),
		catH.NewCategoryHandler(catUC, refUC, log),
		refH.NewCacheHandler(refUC, sweeper, log),
	)
	grpcServer, health := server.NewGRPC(serviceName, log)

	lis, err := net.Listen("tcp", listenAddr(a.cfg.Server.GRPCPort))
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info("Starting gRPC server", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc: %w", err)
		}
	}()
	go func() {
		addr := listenAddr(a.cfg.Server.HTTPPort)
		log.Info("Starting HTTP server", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err = <-errCh:
		log.Error("Server failed", zap.Error(err))
	}

	health.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if serr := e.Shutdown(shutdownCtx); serr != nil {
		log.Warn("HTTP shutdown", zap.Error(serr))
	}
	grpcServer.GracefulStop()
	stop()
	log.Info("Server stopped")
	return err
}

func listenAddr(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
