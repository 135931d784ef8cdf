package service

import (
	"io"
	"testing"

	"helpme/internal/events"
	"helpme/internal/models"
	"helpme/internal/repository"
	"helpme/internal/store"

	"github.com/rs/zerolog"
)

// testEnv wires the full service graph over an in-memory store with the
// notification engine subscribed, the way cmd/api assembles it.
type testEnv struct {
	store         *store.MemoryStore
	bus           *events.EventBus
	listings      *ListingService
	negotiations  *NegotiationService
	notifications *NotificationService
	chat          *ChatService
	share         *ShareService
	users         *UserService
	settings      *SettingsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zerolog.New(io.Discard)
	st := store.NewMemoryStore()
	t.Cleanup(func() { _ = st.Close() })

	spots := repository.NewCollection(st, models.KeySpots, func(s models.ParkingSpot) string { return s.ID }, &logger)
	requests := repository.NewCollection(st, models.KeyRequests, func(r models.ServiceRequest) string { return r.ID }, &logger)
	rides := repository.NewCollection(st, models.KeyCarpool, func(r models.CarpoolRide) string { return r.ID }, &logger)
	lost := repository.NewCollection(st, models.KeyLostFound, func(i models.LostItem) string { return i.ID }, &logger)
	alerts := repository.NewCollection(st, models.KeySos, func(a models.SosAlert) string { return a.ID }, &logger)
	notifs := repository.NewCollection(st, models.KeyNotifications, func(n models.Notification) string { return n.ID }, &logger)
	chat := repository.NewCollection(st, models.KeyChat, func(m models.ChatMessage) string { return m.ID }, &logger)
	users := repository.NewCollection(st, models.KeyUsers, func(u models.User) string { return u.Username }, &logger)
	ads := repository.NewCollection(st, models.KeyAds, func(a models.Advertisement) string { return a.ID }, &logger)
	links := repository.NewCollection(st, models.KeyLinks, func(l models.AppLink) string { return l.ID }, &logger)

	bus := events.NewEventBus()
	notificationSvc := NewNotificationService(notifs, &logger)
	notificationSvc.Subscribe(bus)

	listingSvc := NewListingService(spots, requests, rides, lost, alerts, bus, nil, &logger)

	return &testEnv{
		store:         st,
		bus:           bus,
		listings:      listingSvc,
		negotiations:  NewNegotiationService(spots, requests, alerts, bus, nil, &logger),
		notifications: notificationSvc,
		chat:          NewChatService(chat, &logger),
		share:         NewShareService("http://localhost:8080/app", listingSvc, &logger),
		users:         NewUserService(users, []string{"admin"}, &logger),
		settings:      NewSettingsService(st, ads, links, &logger),
	}
}
