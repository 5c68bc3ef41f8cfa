package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"taxiye/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationCodeSent      NotificationType = "CODE_SENT"
	NotificationPhoneChanged  NotificationType = "PHONE_CHANGED"
	NotificationRideStarted   NotificationType = "RIDE_STARTED"
	NotificationRideCompleted NotificationType = "RIDE_COMPLETED"
	NotificationRideCancelled NotificationType = "RIDE_CANCELLED"
	NotificationTopUpSuccess  NotificationType = "TOPUP_SUCCESS"
	NotificationTopUpFailed   NotificationType = "TOPUP_FAILED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotificationService handles notification delivery. Delivery transports
// (push, SMS, email) belong to the external collaborator; this service
// logs what would be sent.
type NotificationService struct {
	logger *slog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(logger *slog.Logger) *NotificationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationService{logger: logger}
}

// NotifyCodeSent tells the rider a verification code is on its way.
func (s *NotificationService) NotifyCodeSent(ctx context.Context, riderID string) error {
	return s.send(ctx, Notification{
		Type:        NotificationCodeSent,
		RecipientID: riderID,
		Title:       "Verification Code Sent",
		Message:     "We sent a 6-digit code to your email and phone.",
		CreatedAt:   time.Now(),
	})
}

// NotifyPhoneChanged confirms a completed phone change.
func (s *NotificationService) NotifyPhoneChanged(ctx context.Context, riderID, maskedPhone string) error {
	return s.send(ctx, Notification{
		Type:        NotificationPhoneChanged,
		RecipientID: riderID,
		Title:       "Phone Number Updated",
		Message:     fmt.Sprintf("Your account phone number is now %s", maskedPhone),
		CreatedAt:   time.Now(),
	})
}

// NotifyRideCompleted tells the rider their ride finished.
func (s *NotificationService) NotifyRideCompleted(ctx context.Context, trip *domain.Trip) error {
	return s.send(ctx, Notification{
		Type:        NotificationRideCompleted,
		RecipientID: trip.RiderID,
		Title:       "Ride Completed",
		Message:     fmt.Sprintf("You arrived at %s. Fare: %.2f birr", trip.Dropoff, trip.Fare),
		Data: map[string]interface{}{
			"trip_id":        trip.ID,
			"fare":           trip.Fare,
			"payment_method": trip.PaymentMethod,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyTopUpResult tells the rider how a wallet top-up settled.
func (s *NotificationService) NotifyTopUpResult(ctx context.Context, tx *domain.Transaction) error {
	n := Notification{
		RecipientID: tx.UserID,
		Data: map[string]interface{}{
			"transaction_id": tx.ID,
			"amount":         tx.Amount,
		},
		CreatedAt: time.Now(),
	}
	if tx.Status == domain.TransactionStatusSuccess {
		n.Type = NotificationTopUpSuccess
		n.Title = "Top-Up Successful"
		n.Message = fmt.Sprintf("%.2f birr added to your wallet", tx.Amount)
	} else {
		n.Type = NotificationTopUpFailed
		n.Title = "Top-Up Failed"
		n.Message = fmt.Sprintf("Top-up of %.2f birr failed. Please try again.", tx.Amount)
	}
	return s.send(ctx, n)
}

// send delivers a notification (log-based implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	s.logger.Info("notification",
		"type", notification.Type,
		"recipient", notification.RecipientID,
		"title", notification.Title,
		"message", notification.Message,
	)
	return nil
}
