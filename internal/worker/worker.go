package worker

import (
	"context"
	"fmt"
	"log"
	"strings"

	"farm-order-service/internal/broker"
	"farm-order-service/internal/models"
	"farm-order-service/internal/store"
	"farm-order-service/internal/util"

	"go.uber.org/zap"
)

// NotificationWorker consumes order events and records a notification
// for the affected farmer. Handling is idempotent: each event is
// processed at most once via the processed_events table.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        *store.Store
	logger       *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, st *store.Store) *NotificationWorker {
	w := &NotificationWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		store:        st,
		logger:       util.GetLogger(),
	}

	w.eventHandler.OnOrderPlaced(w.handleOrderPlaced)
	w.eventHandler.OnOrderStatusChanged(w.handleOrderStatusChanged)

	return w
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	log.Println("Starting notification worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	log.Println("Stopping notification worker...")
	return w.consumer.Close()
}

func (w *NotificationWorker) handleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	message := fmt.Sprintf("Your order #%d totaling %.2f has been received and is pending review",
		event.OrderID, event.TotalAmount)
	return w.notify(ctx, &event.BaseEvent, event.FarmerID, event.OrderID, message)
}

func (w *NotificationWorker) handleOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	message := fmt.Sprintf("Your order #%d has been %s",
		event.OrderID, strings.ToLower(event.Status))
	return w.notify(ctx, &event.BaseEvent, event.FarmerID, event.OrderID, message)
}

func (w *NotificationWorker) notify(ctx context.Context, base *models.BaseEvent, farmerID, orderID int64, message string) error {
	processed, err := w.store.IsEventProcessed(ctx, base.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		w.logger.Info("Event already processed", zap.String("event_id", base.EventID))
		return nil
	}

	notification := &models.Notification{
		FarmerID: farmerID,
		OrderID:  orderID,
		Message:  message,
	}
	if err := w.store.CreateNotification(ctx, notification); err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}

	if err := w.store.MarkEventProcessed(ctx, base.EventID, base.EventType); err != nil {
		w.logger.Error("Failed to mark event processed", zap.Error(err))
	}

	util.NotificationsSentTotal.Inc()
	w.logger.Info("Notification recorded",
		zap.Int64("farmer_id", farmerID),
		zap.Int64("order_id", orderID),
		zap.String("event_type", base.EventType))
	return nil
}
