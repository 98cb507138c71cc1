package services

import (
	"fmt"
	"strings"
	"workshop_manager/internal/models"

	log "github.com/sirupsen/logrus"
)

// MessageSender delivers a text message to a phone number.
type MessageSender interface {
	SendTextMessage(phone, message string) error
}

// NotificationService tells customers about their orders. Delivery is best
// effort and never fails the operation that triggered it.
type NotificationService interface {
	NotifyReadyForPickup(order *models.WorkOrder)
}

type notificationService struct {
	sender MessageSender
}

// NewNotificationService returns a notifier; a nil sender only logs.
func NewNotificationService(sender MessageSender) NotificationService {
	return &notificationService{sender: sender}
}

func (s *notificationService) NotifyReadyForPickup(order *models.WorkOrder) {
	logger := log.WithField("order_id", order.ID)

	if order.Customer == nil || strings.TrimSpace(order.Customer.Phone) == "" {
		logger.Info("Customer has no phone, skipping pickup notification")
		return
	}
	if s.sender == nil {
		logger.Debug("Notifications disabled, skipping pickup notification")
		return
	}

	if err := s.sender.SendTextMessage(order.Customer.Phone, ReadyForPickupMessage(order)); err != nil {
		logger.WithError(err).Warn("Failed to send pickup notification")
		return
	}
	logger.Info("Pickup notification sent")
}

func ReadyForPickupMessage(order *models.WorkOrder) string {
	vehicle := "your vehicle"
	if order.Vehicle != nil {
		vehicle = order.Vehicle.String()
	}
	name := ""
	if order.Customer != nil {
		name = order.Customer.Name
	}
	return fmt.Sprintf("Hello %s, %s is ready for pickup (order #%d).", name, vehicle, order.ID)
}
