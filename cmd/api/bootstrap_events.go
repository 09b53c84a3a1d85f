package main

import (
	"context"
	"sync"

	config "github.com/NordCoder/Animetrack/internal/config/api"
	"github.com/NordCoder/Animetrack/internal/obs/retry"
	"github.com/NordCoder/Animetrack/internal/outbox"
	"github.com/NordCoder/Animetrack/internal/repository/kafka"
	pg "github.com/NordCoder/Animetrack/internal/repository/postgres"
	apiauth "github.com/NordCoder/Animetrack/internal/services/api/auth"
	"go.uber.org/zap"
)

type events struct {
	emitter apiauth.EventEmitter
	wg      sync.WaitGroup
	closer  func()
}

// wait blocks until the outbox runner has drained, then closes the producer.
func (e *events) wait() {
	e.wg.Wait()
	if e.closer != nil {
		e.closer()
	}
}

// initEvents starts the outbox runner when events are enabled. When disabled
// the returned emitter is nil and nothing is written to the outbox.
func initEvents(ctx context.Context, cfg *config.Config, logger *zap.Logger, db *pg.DB) (*events, error) {
	ev := &events{}
	if !cfg.Events.Enable {
		return ev, nil
	}

	if err := kafka.EnsureTopic(ctx, cfg.Events.Brokers, cfg.Events.Topic, logger); err != nil {
		// the writer can still create the topic on first publish
		logger.Warn("ensure topic", zap.Error(err))
	}

	producer := kafka.NewProducer(kafka.ProducerConfig{
		Brokers: cfg.Events.Brokers,
		Topic:   cfg.Events.Topic.Name,
	}).WithLogger(logger)

	repo := pg.NewOutboxRepo(db)
	dispatch := outbox.MakeGlobalOutboxHandler(kafka.NewAccountEventsKafka(producer), retry.DefaultPublishPolicy(logger))
	runner := outbox.NewOutboxRunner(logger, repo, dispatch, cfg.Events.Outbox)

	ev.emitter = outbox.NewEmitter(repo)
	ev.closer = func() { _ = producer.Close() }
	ev.wg.Add(1)
	go func() {
		defer ev.wg.Done()
		runner.Run(ctx)
	}()
	logger.Info("account events enabled", zap.String("topic", cfg.Events.Topic.Name))
	return ev, nil
}
