package email

import (
	"context"
	"fmt"
	"net/smtp"

	"opticsmarket-backend/pkg/logger"
)

// OrderEventData is the template payload for every order lifecycle email.
// Fields not relevant to a given event are left empty.
type OrderEventData struct {
	To           string
	Recipient    string // display name
	OrderNumber  string
	StoreName    string
	Total        string
	DeliveryCode string // only for order-placed emails to the buyer
	Reason       string // only for rejection emails
}

type EmailService interface {
	SendOrderPlaced(ctx context.Context, data OrderEventData) error
	SendStoreOrderAccepted(ctx context.Context, data OrderEventData) error
	SendStoreOrderPaid(ctx context.Context, data OrderEventData) error
	SendStoreOrderOutForDelivery(ctx context.Context, data OrderEventData) error
	SendStoreOrderDelivered(ctx context.Context, data OrderEventData) error
	SendStoreOrderRejected(ctx context.Context, data OrderEventData) error
}

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
}

func NewSMTPEmailService(smtpHost, smtpPort, from string) EmailService {
	return &smtpEmailService{
		smtpAddr: smtpHost + ":" + smtpPort,
		smtpFrom: from,
	}
}

func (s *smtpEmailService) SendOrderPlaced(ctx context.Context, data OrderEventData) error {
	subject := fmt.Sprintf("Order %s confirmed", data.OrderNumber)
	body := fmt.Sprintf(`Hi %s,

Thanks for your order %s (total %s).

Your delivery code for %s is: %s
Share it with the courier only when your parcel arrives.`,
		data.Recipient, data.OrderNumber, data.Total, data.StoreName, data.DeliveryCode)
	return s.send(data.To, subject, body)
}

func (s *smtpEmailService) SendStoreOrderAccepted(ctx context.Context, data OrderEventData) error {
	subject := fmt.Sprintf("Order %s accepted by %s", data.OrderNumber, data.StoreName)
	body := fmt.Sprintf(`Hi %s,

%s has accepted your order %s. The updated total including delivery is %s.`,
		data.Recipient, data.StoreName, data.OrderNumber, data.Total)
	return s.send(data.To, subject, body)
}

func (s *smtpEmailService) SendStoreOrderPaid(ctx context.Context, data OrderEventData) error {
	subject := fmt.Sprintf("Payment received for order %s", data.OrderNumber)
	body := fmt.Sprintf(`Hi %s,

Payment of %s for order %s has been received and is held in escrow.
It will be released to your balance once the buyer confirms delivery.`,
		data.Recipient, data.Total, data.OrderNumber)
	return s.send(data.To, subject, body)
}

func (s *smtpEmailService) SendStoreOrderOutForDelivery(ctx context.Context, data OrderEventData) error {
	subject := fmt.Sprintf("Order %s is out for delivery", data.OrderNumber)
	body := fmt.Sprintf(`Hi %s,

Your order %s from %s is on its way. Have your delivery code ready.`,
		data.Recipient, data.OrderNumber, data.StoreName)
	return s.send(data.To, subject, body)
}

func (s *smtpEmailService) SendStoreOrderDelivered(ctx context.Context, data OrderEventData) error {
	subject := fmt.Sprintf("Order %s delivered", data.OrderNumber)
	body := fmt.Sprintf(`Hi %s,

Your order %s from %s has been delivered. Enjoy your new eyewear!`,
		data.Recipient, data.OrderNumber, data.StoreName)
	return s.send(data.To, subject, body)
}

func (s *smtpEmailService) SendStoreOrderRejected(ctx context.Context, data OrderEventData) error {
	subject := fmt.Sprintf("Order %s could not be fulfilled", data.OrderNumber)
	body := fmt.Sprintf(`Hi %s,

Unfortunately %s could not fulfil your order %s.
Reason: %s

You have not been charged for this part of your order.`,
		data.Recipient, data.StoreName, data.OrderNumber, data.Reason)
	return s.send(data.To, subject, body)
}

func (s *smtpEmailService) send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, to, subject, body))

	if err := smtp.SendMail(s.smtpAddr, nil, s.smtpFrom, []string{to}, msg); err != nil {
		logger.Warn("Failed to send email", map[string]interface{}{
			"error":     err.Error(),
			"to":        to,
			"smtp_addr": s.smtpAddr,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
