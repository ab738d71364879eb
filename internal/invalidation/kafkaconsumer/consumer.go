// Package kafkaconsumer drains invalidation events from Kafka and
// drops the stale cache entries they cover.
package kafkaconsumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/anguswg-ucsb/cdssgo/internal/cache"
	"github.com/anguswg-ucsb/cdssgo/internal/cache/keys"
	"github.com/anguswg-ucsb/cdssgo/internal/invalidation"
	"github.com/anguswg-ucsb/cdssgo/internal/observability"
)

type Consumer struct {
	cfg   Config
	log   zerolog.Logger
	store cache.Store
}

func New(cfg Config, log zerolog.Logger, store cache.Store) *Consumer {
	return &Consumer{cfg: cfg, log: log, store: store}
}

// Start joins the consumer group and processes events until the
// context is canceled. Consume errors back off and rejoin rather than
// killing the proxy.
func (c *Consumer) Start(ctx context.Context) error {
	if c.store == nil {
		return errors.New("kafkaconsumer: cache store is required")
	}

	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_1_0_0
	cfg.Consumer.Group.Session.Timeout = c.cfg.SessionTimeout
	cfg.Consumer.Group.Heartbeat.Interval = c.cfg.Heartbeat
	cfg.Consumer.Group.Rebalance.Timeout = c.cfg.RebalanceTimeout
	if c.cfg.InitialOffsetOldest {
		cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	}
	cfg.Consumer.Offsets.AutoCommit.Enable = true

	group, err := sarama.NewConsumerGroup(c.cfg.Brokers, c.cfg.GroupID, cfg)
	if err != nil {
		return fmt.Errorf("create consumer group: %w", err)
	}
	defer func() { _ = group.Close() }()

	handler := &groupHandler{process: c.ProcessOne}

	c.log.Info().
		Strs("brokers", c.cfg.Brokers).
		Str("topic", c.cfg.Topic).
		Str("group", c.cfg.GroupID).
		Msg("invalidation consumer starting")

	for {
		select {
		case <-ctx.Done():
			c.log.Info().Msg("invalidation consumer shutting down")
			return nil
		default:
			if err := group.Consume(ctx, []string{c.cfg.Topic}, handler); err != nil {
				c.log.Error().Err(err).
					Str("topic", c.cfg.Topic).
					Msg("consumer error")
				time.Sleep(2 * time.Second)
			}
		}
	}
}

// ProcessOne handles a single invalidation message.
func (c *Consumer) ProcessOne(ctx context.Context, msg *sarama.ConsumerMessage) error {
	start := time.Now()

	var ev invalidation.Event
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		observability.IncKafkaConsumerError("decode")
		c.log.Error().
			Str("kind", "decode").
			Str("topic", msg.Topic).
			Int32("partition", msg.Partition).
			Int64("offset", msg.Offset).
			Msg("kafka error")
		return fmt.Errorf("json decode: %w", err)
	}
	if err := ev.Validate(); err != nil {
		observability.IncKafkaConsumerError("validate")
		observability.ObserveInvalidation(ev.Op, ev.Resource, 0, time.Since(start), err)
		return fmt.Errorf("invalid event: %w", err)
	}

	// The key layout puts the resource first, so one prefix sweep covers
	// every filter combination and spatial cell cached for it.
	n, err := c.store.DelPrefix(ctx, keys.Prefix(ev.Resource))
	if err != nil {
		observability.IncKafkaConsumerError("cache_del")
		observability.ObserveInvalidation(ev.Op, ev.Resource, n, time.Since(start), err)
		c.log.Error().Err(err).
			Str("kind", "cache_del").
			Str("resource", ev.Resource).
			Msg("kafka error")
		return fmt.Errorf("cache del: %w", err)
	}

	observability.ObserveInvalidation(ev.Op, ev.Resource, n, time.Since(start), nil)
	c.log.Info().
		Str("event", "invalidation").
		Str("op", ev.Op).
		Str("resource", ev.Resource).
		Int("division", ev.Division).
		Int("keys", n).
		Msg("invalidated keys")
	return nil
}
