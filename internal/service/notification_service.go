package service

import (
	"context"
	"encoding/json"
	"fmt"

	"helpme/internal/events"
	"helpme/internal/metrics"
	"helpme/internal/models"
	"helpme/internal/repository"

	"github.com/rs/zerolog"
)

// Notification message templates, kept verbatim from the product copy.
const (
	msgSpotRequested = "يوجد طلب جديد للركنة الخاصة بك في %s من %s"
	msgOfferMade     = "قام %s بتقديم عرض لتنفيذ خدمة \"%s\" بسعر %d"
	msgOfferAccepted = "قام %s بالموافقة على عرضك لخدمة %s"
	msgOfferRejected = "قام %s برفض عرضك لخدمة %s"
	msgSosRaised     = "إشعار طوارئ جديد: %s من %s"
)

// NotificationService keeps the global notification log and composes the
// per-transition messages. It consumes domain events so the producing
// services never address recipients directly.
type NotificationService struct {
	notifications *repository.Collection[models.Notification]
	logger        *zerolog.Logger
}

func NewNotificationService(notifications *repository.Collection[models.Notification], logger *zerolog.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, logger: logger}
}

// Notify records an unread notification for one recipient.
func (s *NotificationService) Notify(ctx context.Context, toUser, message, notifType string) error {
	n := models.Notification{
		ID:        newID(),
		ToUser:    toUser,
		Message:   message,
		Read:      false,
		Timestamp: nowMillis(),
		Type:      notifType,
	}
	if err := s.notifications.Add(ctx, n); err != nil {
		return err
	}
	metrics.IncNotification(notifType)
	return nil
}

// InboxFor returns the recipient's view of the global log, newest first.
func (s *NotificationService) InboxFor(username string) []models.Notification {
	return s.notifications.Filter(func(n models.Notification) bool {
		return n.ToUser == username
	})
}

// UnreadCountFor counts the recipient's unread notifications.
func (s *NotificationService) UnreadCountFor(username string) int {
	count := 0
	for _, n := range s.InboxFor(username) {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkAllReadFor marks every notification addressed to the user as read.
func (s *NotificationService) MarkAllReadFor(ctx context.Context, username string) error {
	return s.notifications.UpdateAll(ctx, func(n *models.Notification) {
		if n.ToUser == username {
			n.Read = true
		}
	})
}

// ClearAll empties the whole log for every recipient. Admin surface only.
func (s *NotificationService) ClearAll(ctx context.Context) error {
	return s.notifications.Replace(ctx, []models.Notification{})
}

// Subscribe wires the engine to the bus. Handlers run synchronously inside
// the publishing transition.
func (s *NotificationService) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventSpotRequested, func(event *events.Event) error {
		var p events.SpotEventPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return err
		}
		return s.Notify(context.Background(), p.Owner,
			fmt.Sprintf(msgSpotRequested, p.Region, p.Requester), models.NotifyParking)
	})

	bus.Subscribe(events.EventOfferMade, func(event *events.Event) error {
		var p events.OfferEventPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return err
		}
		return s.Notify(context.Background(), p.Requester,
			fmt.Sprintf(msgOfferMade, p.Provider, p.ServiceName, p.Price), models.NotifyService)
	})

	bus.Subscribe(events.EventOfferAccepted, func(event *events.Event) error {
		var p events.OfferEventPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return err
		}
		return s.Notify(context.Background(), p.Provider,
			fmt.Sprintf(msgOfferAccepted, p.Requester, p.ServiceName), models.NotifyService)
	})

	bus.Subscribe(events.EventOfferRejected, func(event *events.Event) error {
		var p events.OfferEventPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return err
		}
		return s.Notify(context.Background(), p.Provider,
			fmt.Sprintf(msgOfferRejected, p.Requester, p.ServiceName), models.NotifyService)
	})

	bus.Subscribe(events.EventSosRaised, func(event *events.Event) error {
		var p events.SosEventPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return err
		}
		return s.Notify(context.Background(), models.AdminInbox,
			fmt.Sprintf(msgSosRaised, p.IssueType, p.Requester), models.NotifySos)
	})
}
