package shared

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// StoreOrderEvent identifies which lifecycle transition triggered a
// notification task.
type StoreOrderEvent string

const (
	EventStoreOrderAccepted       StoreOrderEvent = "accepted"
	EventStoreOrderPaid           StoreOrderEvent = "paid"
	EventStoreOrderOutForDelivery StoreOrderEvent = "out_for_delivery"
	EventStoreOrderDelivered      StoreOrderEvent = "delivered"
	EventStoreOrderRejected       StoreOrderEvent = "rejected"

	TypeSendOrderPlacedEmail     = "email:order_placed"
	TypeSendStoreOrderEventEmail = "email:store_order_event"
	TypeExpirePoints             = "points:expire"

	// QueueEmail keeps notification delivery off the default queue so a
	// mail backlog cannot starve other jobs.
	QueueEmail = "email"
)

// OrderPlacedEmailPayload is enqueued once per store order after
// checkout commits, so the buyer gets one delivery code per store.
type OrderPlacedEmailPayload struct {
	OrderNumber  string `json:"orderNumber"`
	StoreOrderID string `json:"storeOrderId"`
	StoreName    string `json:"storeName"`
	UserEmail    string `json:"userEmail"`
	UserName     string `json:"userName"`
	Total        string `json:"total"`
	DeliveryCode string `json:"deliveryCode"`
}

// StoreOrderEventEmailPayload covers all transitions after checkout.
type StoreOrderEventEmailPayload struct {
	Event        StoreOrderEvent `json:"event"`
	OrderNumber  string          `json:"orderNumber"`
	StoreOrderID string          `json:"storeOrderId"`
	StoreName    string          `json:"storeName"`
	UserEmail    string          `json:"userEmail"`
	UserName     string          `json:"userName"`
	Total        string          `json:"total"`
	Reason       string          `json:"reason,omitempty"`
}

// ExpirePointsPayload drives the scheduled loyalty point expiry sweep.
// A zero BatchSize makes the handler fall back to its default.
type ExpirePointsPayload struct {
	BatchSize int `json:"batchSize"`
}

// NewTask marshals a payload into an asynq task of the given type.
func NewTask(taskType string, payload interface{}) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, data), nil
}

// UnmarshalTask decodes a task payload into dest.
func UnmarshalTask(t *asynq.Task, dest interface{}) error {
	if err := json.Unmarshal(t.Payload(), dest); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", t.Type(), err)
	}
	return nil
}
