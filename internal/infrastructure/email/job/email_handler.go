package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"opticsmarket-backend/internal/infrastructure/email"
	"opticsmarket-backend/internal/shared"
	"opticsmarket-backend/pkg/logger"
)

// ============================================
// Order Placed Email Handler
// ============================================

type OrderPlacedEmailHandler struct {
	emailService email.EmailService
}

func NewOrderPlacedEmailHandler(emailService email.EmailService) *OrderPlacedEmailHandler {
	return &OrderPlacedEmailHandler{
		emailService: emailService,
	}
}

func (h *OrderPlacedEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.OrderPlacedEmailPayload
	if err := shared.UnmarshalTask(task, &payload); err != nil {
		logger.Error("Failed to unmarshal order placed payload", err)
		return err
	}

	data := email.OrderEventData{
		To:           payload.UserEmail,
		Recipient:    payload.UserName,
		OrderNumber:  payload.OrderNumber,
		StoreName:    payload.StoreName,
		Total:        payload.Total,
		DeliveryCode: payload.DeliveryCode,
	}

	if err := h.emailService.SendOrderPlaced(ctx, data); err != nil {
		logger.Error("Failed to send order placed email", err)
		return fmt.Errorf("send order placed email: %w", err)
	}

	logger.Info("Order placed email sent", map[string]interface{}{
		"order_number":   payload.OrderNumber,
		"store_order_id": payload.StoreOrderID,
		"to":             payload.UserEmail,
	})

	return nil
}

// ============================================
// Store Order Event Email Handler
// ============================================

type StoreOrderEventEmailHandler struct {
	emailService email.EmailService
}

func NewStoreOrderEventEmailHandler(emailService email.EmailService) *StoreOrderEventEmailHandler {
	return &StoreOrderEventEmailHandler{
		emailService: emailService,
	}
}

func (h *StoreOrderEventEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.StoreOrderEventEmailPayload
	if err := shared.UnmarshalTask(task, &payload); err != nil {
		logger.Error("Failed to unmarshal store order event payload", err)
		return err
	}

	data := email.OrderEventData{
		To:          payload.UserEmail,
		Recipient:   payload.UserName,
		OrderNumber: payload.OrderNumber,
		StoreName:   payload.StoreName,
		Total:       payload.Total,
		Reason:      payload.Reason,
	}

	var err error
	switch payload.Event {
	case shared.EventStoreOrderAccepted:
		err = h.emailService.SendStoreOrderAccepted(ctx, data)
	case shared.EventStoreOrderPaid:
		err = h.emailService.SendStoreOrderPaid(ctx, data)
	case shared.EventStoreOrderOutForDelivery:
		err = h.emailService.SendStoreOrderOutForDelivery(ctx, data)
	case shared.EventStoreOrderDelivered:
		err = h.emailService.SendStoreOrderDelivered(ctx, data)
	case shared.EventStoreOrderRejected:
		err = h.emailService.SendStoreOrderRejected(ctx, data)
	default:
		// Unknown events are dropped rather than retried forever.
		logger.Warn("Unknown store order event, skipping", map[string]interface{}{
			"event":          string(payload.Event),
			"store_order_id": payload.StoreOrderID,
		})
		return nil
	}

	if err != nil {
		logger.Error("Failed to send store order event email", err)
		return fmt.Errorf("send %s email: %w", payload.Event, err)
	}

	logger.Info("Store order event email sent", map[string]interface{}{
		"event":          string(payload.Event),
		"order_number":   payload.OrderNumber,
		"store_order_id": payload.StoreOrderID,
		"to":             payload.UserEmail,
	})

	return nil
}
