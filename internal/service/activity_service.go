package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/item-lending/internal/config"
	"github.com/spec-kit/item-lending/internal/events"
	"github.com/spec-kit/item-lending/internal/observability"
)

// ActivityService writes domain events to the structured log and counts them.
type ActivityService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	cfg        config.ActivityConfig
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics, cfg config.ActivityConfig) *ActivityService {
	return &ActivityService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventItemRegistered, a.handleItemRegistered)
	a.dispatcher.Subscribe(events.EventItemRemoved, a.handleItemRemoved)
	a.dispatcher.Subscribe(events.EventLoanRegistered, a.handleLoanRegistered)
	a.dispatcher.Subscribe(events.EventItemReturned, a.handleItemReturned)
}

func (a *ActivityService) handleItemRegistered(ctx context.Context, event events.Event) error {
	a.record(event)
	a.log("ItemRegistered", event)
	return nil
}

func (a *ActivityService) handleItemRemoved(ctx context.Context, event events.Event) error {
	a.record(event)
	a.log("ItemRemoved", event)
	return nil
}

func (a *ActivityService) handleLoanRegistered(ctx context.Context, event events.Event) error {
	a.record(event)
	a.log("LoanRegistered", event)
	return nil
}

func (a *ActivityService) handleItemReturned(ctx context.Context, event events.Event) error {
	a.record(event)
	if payload, ok := event.Payload.(events.ItemReturnedPayload); ok && payload.Late {
		a.logger.Warn("ItemReturnedLate",
			zap.String("event_id", event.ID),
			zap.String("owner", event.Owner.String()),
			zap.String("item", event.ItemName),
			zap.String("borrower", payload.Borrower.String()))
		return nil
	}
	a.log("ItemReturned", event)
	return nil
}

func (a *ActivityService) record(event events.Event) {
	a.metrics.RecordEvent(string(event.Type))
}

func (a *ActivityService) log(msg string, event events.Event) {
	if !a.cfg.Enabled {
		return
	}
	a.logger.Info(msg,
		zap.String("event_id", event.ID),
		zap.String("owner", event.Owner.String()),
		zap.String("item", event.ItemName),
		zap.Any("payload", event.Payload))
}
