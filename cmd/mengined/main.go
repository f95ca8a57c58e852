package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fastfill-network/matching-engine/internal/config"
	"github.com/fastfill-network/matching-engine/internal/core/application"
	"github.com/fastfill-network/matching-engine/internal/core/ports"
	"github.com/fastfill-network/matching-engine/internal/infrastructure/cctp"
	slotclock "github.com/fastfill-network/matching-engine/internal/infrastructure/clock"
	"github.com/fastfill-network/matching-engine/internal/infrastructure/metrics"
	"github.com/fastfill-network/matching-engine/internal/infrastructure/natsbus"
	"github.com/fastfill-network/matching-engine/internal/infrastructure/pubsub"
	dbbadger "github.com/fastfill-network/matching-engine/internal/infrastructure/storage/db/badger"
	"github.com/fastfill-network/matching-engine/internal/infrastructure/storage/db/inmemory"
	"github.com/fastfill-network/matching-engine/internal/infrastructure/wormhole"
	grpcinterface "github.com/fastfill-network/matching-engine/internal/interfaces/grpc"
	httpinterface "github.com/fastfill-network/matching-engine/internal/interfaces/http"
	"github.com/fastfill-network/matching-engine/pkg/stats"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/raulk/clock"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to init config")
	}

	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	datadir := config.GetDatadir()
	dbDir := filepath.Join(datadir, config.DbLocation)

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		log.WithError(err).Fatal("failed to register metrics")
	}

	repoManager, err := newRepoManager(dbDir)
	if err != nil {
		log.WithError(err).Fatal("failed to open engine db")
	}
	defer repoManager.Close()

	pubsubSvc, err := newPubSub(dbDir)
	if err != nil {
		log.WithError(err).Fatal("failed to open pubsub db")
	}
	defer pubsubSvc.Close()

	var natsConn *nats.Conn
	if url := config.GetString(config.NatsURLKey); len(url) > 0 {
		if natsConn, err = natsbus.Connect(url, 0); err != nil {
			log.WithError(err).Fatal("failed to connect to nats")
		}
		defer natsConn.Close()
	}

	appConfig, eventStream, err := newAppConfig(repoManager, pubsubSvc, natsConn)
	if err != nil {
		log.WithError(err).Fatal("failed to init engine")
	}

	svc, err := grpcinterface.NewService(grpcinterface.ServiceOpts{
		Datadir:      datadir,
		Address:      fmt.Sprintf(":%d", config.GetInt(config.ListeningPortKey)),
		NoTLS:        config.GetBool(config.NoTLSKey),
		TLSLocation:  config.TLSLocation,
		ExtraIPs:     config.GetStringSlice(config.ExtraIPKey),
		ExtraDomains: config.GetStringSlice(config.ExtraDomainKey),
		AuthSecret:   config.GetAuthSecret(),
		RateLimit:    config.GetInt(config.RateLimitKey),
		AppConfig:    appConfig,
		EventStream:  eventStream,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to init interface")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if config.GetBool(config.EnableProfilerKey) {
		interval := time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second
		if interval > 0 {
			dumpPath := filepath.Join(datadir, config.ProfilerLocation, "stats")
			stats.EnableMemoryStatistics(ctx, interval, prometheus.DefaultGatherer, dumpPath)
		}
	}

	log.Info("starting engine")

	if err := svc.Start(); err != nil {
		log.WithError(err).Fatal("failed to start engine")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	<-sigChan

	log.Info("shutting down engine")
	svc.Stop()
	cancel()

	log.Info("exiting")
}

func newRepoManager(dbDir string) (ports.RepoManager, error) {
	if config.GetString(config.DBTypeKey) == config.DBInMemory {
		return inmemory.NewRepoManager(), nil
	}
	return dbbadger.NewRepoManager(dbDir, log.StandardLogger())
}

func newPubSub(dbDir string) (ports.PubSub, error) {
	if config.GetString(config.DBTypeKey) == config.DBInMemory {
		return pubsub.NewService("", nil)
	}
	return pubsub.NewService(dbDir, log.StandardLogger())
}

func newAppConfig(
	repoManager ports.RepoManager, pubsubSvc ports.PubSub, natsConn *nats.Conn,
) (*application.Config, *httpinterface.EventStream, error) {
	localChain := config.GetLocalChain()

	slotClock, err := slotclock.NewSlotClock(
		clock.New(), config.GetGenesisTime(), config.GetDuration(config.SlotDurationKey),
	)
	if err != nil {
		return nil, nil, err
	}

	transmitter, err := cctp.NewTransmitter(
		config.GetCctpLocalDomain(),
		config.GetAddress(config.BurnTokenKey),
		config.GetCctpAttesters(),
		config.GetInt(config.CctpAttestationThresholdKey),
	)
	if err != nil {
		return nil, nil, err
	}

	eventStream := httpinterface.NewEventStream()
	eventPublishers := []ports.EventPublisher{metrics.NewEventCounter(), eventStream}

	publisherOpts := make([]wormhole.Option, 0)
	if key := config.GetGuardianKey(); key != nil {
		publisherOpts = append(publisherOpts, wormhole.WithGuardianKey(key))
	}

	if natsConn != nil {
		eventsPublisher, err := natsbus.NewPublisher(
			natsConn, config.GetString(config.EventsSubjectKey),
		)
		if err != nil {
			return nil, nil, err
		}
		eventPublishers = append(eventPublishers, eventsPublisher)

		messagesPublisher, err := natsbus.NewPublisher(
			natsConn, config.GetString(config.MessagesSubjectKey),
		)
		if err != nil {
			return nil, nil, err
		}
		publisherOpts = append(publisherOpts, wormhole.WithForwarder(messagesPublisher))
	}

	messagePublisher, err := wormhole.NewPublisher(localChain, slotClock, publisherOpts...)
	if err != nil {
		return nil, nil, err
	}

	return &application.Config{
		RepoManager:          repoManager,
		Clock:                slotClock,
		CctpTransmitter:      transmitter,
		MessagePublisher:     messagePublisher,
		PubSub:               pubsubSvc,
		EventPublishers:      eventPublishers,
		LocalChain:           localChain,
		UpgradeAuthority:     config.GetAddress(config.UpgradeAuthorityKey),
		EngineProgramID:      config.GetAddress(config.EngineProgramIDKey),
		TokenRouterProgramID: config.GetAddress(config.TokenRouterProgramIDKey),
		EnactDelaySlots:      config.GetUint64(config.EnactDelaySlotsKey),
		ConfigCacheSize:      config.GetInt(config.ConfigCacheSizeKey),
		EnableFaucet:         config.GetBool(config.EnableFaucetKey),
	}, eventStream, nil
}
