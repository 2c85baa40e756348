package main

import (
	"github.com/hibiken/asynq"

	pointsJob "opticsmarket-backend/internal/domains/points/job"
	"opticsmarket-backend/internal/infrastructure/email"
	emailjob "opticsmarket-backend/internal/infrastructure/email/job"
	"opticsmarket-backend/internal/shared"
	"opticsmarket-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	orderPlaced     *emailjob.OrderPlacedEmailHandler
	storeOrderEvent *emailjob.StoreOrderEventEmailHandler
	expirePoints    *pointsJob.ExpirePointsHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	emailSvc := email.NewSMTPEmailService(
		c.Config.Email.SMTPHost,
		c.Config.Email.SMTPPort,
		c.Config.Email.From,
	)

	return &HandlerRegistry{
		orderPlaced:     emailjob.NewOrderPlacedEmailHandler(emailSvc),
		storeOrderEvent: emailjob.NewStoreOrderEventEmailHandler(emailSvc),
		expirePoints:    pointsJob.NewExpirePointsHandler(c.PointsService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeSendOrderPlacedEmail, h.orderPlaced.ProcessTask)
	mux.HandleFunc(shared.TypeSendStoreOrderEventEmail, h.storeOrderEvent.ProcessTask)
	mux.HandleFunc(shared.TypeExpirePoints, h.expirePoints.ProcessTask)
}
