package service

import (
	"context"

	"helpme/internal/domain"
	"helpme/internal/events"
	"helpme/internal/metrics"
	"helpme/internal/models"
	"helpme/internal/repository"

	"github.com/rs/zerolog"
)

// NegotiationService owns the lifecycle transitions: spot requests, service
// offers and their resolution, and SOS resolution. Every successful
// transition publishes an event so the notification engine runs in the same
// operation.
type NegotiationService struct {
	spots    *repository.Collection[models.ParkingSpot]
	requests *repository.Collection[models.ServiceRequest]
	alerts   *repository.Collection[models.SosAlert]
	bus      domain.EventPublisher
	mirror   domain.SyncWorker
	logger   *zerolog.Logger
}

func NewNegotiationService(
	spots *repository.Collection[models.ParkingSpot],
	requests *repository.Collection[models.ServiceRequest],
	alerts *repository.Collection[models.SosAlert],
	bus domain.EventPublisher,
	mirror domain.SyncWorker,
	logger *zerolog.Logger,
) *NegotiationService {
	return &NegotiationService{
		spots:    spots,
		requests: requests,
		alerts:   alerts,
		bus:      bus,
		mirror:   mirror,
		logger:   logger,
	}
}

// RequestSpot records an interest in a parking spot. The requester field is
// last-write-wins and availability is untouched; the owner decides off-app
// whether the spot is taken.
func (s *NegotiationService) RequestSpot(ctx context.Context, spotID, requester string) (models.ParkingSpot, error) {
	spot, ok, err := s.spots.Update(ctx, spotID, func(sp *models.ParkingSpot) {
		sp.Requester = requester
	})
	if err != nil {
		return models.ParkingSpot{}, err
	}
	if !ok {
		return models.ParkingSpot{}, ErrNotFound
	}

	metrics.IncTransition("spot", "requested")
	s.publish(events.EventSpotRequested, events.SpotEventPayload{
		SpotID:    spot.ID,
		Owner:     spot.Owner,
		Region:    spot.Region,
		Requester: requester,
	})
	s.enqueueSpotsMirror(ctx)
	return spot, nil
}

// OfferInput is a provider's counter-offer on a pending service request.
type OfferInput struct {
	Price         int    `json:"price"`
	ProviderPhone string `json:"providerPhone"`
}

// MakeOffer moves a pending request to negotiating and records the
// provider's terms. Offers on non-pending requests and offers on one's own
// request are rejected without modifying the record.
func (s *NegotiationService) MakeOffer(ctx context.Context, requestID, provider string, in OfferInput) (models.ServiceRequest, error) {
	current, ok := s.requests.FindByID(requestID)
	if !ok {
		return models.ServiceRequest{}, ErrNotFound
	}
	if current.Requester == provider {
		return models.ServiceRequest{}, ErrSelfAction
	}
	if current.Status != models.StatusPending {
		return models.ServiceRequest{}, ErrInvalidState
	}

	req, ok, err := s.requests.Update(ctx, requestID, func(r *models.ServiceRequest) {
		if r.Status != models.StatusPending {
			return
		}
		r.Status = models.StatusNegotiating
		r.FinalPrice = in.Price
		r.Provider = provider
		r.ProviderPhone = in.ProviderPhone
	})
	if err != nil {
		return models.ServiceRequest{}, err
	}
	if !ok || req.Status != models.StatusNegotiating {
		return models.ServiceRequest{}, ErrInvalidState
	}

	metrics.IncTransition("request", models.StatusNegotiating)
	s.publish(events.EventOfferMade, events.OfferEventPayload{
		RequestID:   req.ID,
		Requester:   req.Requester,
		ServiceName: req.ServiceName,
		Provider:    provider,
		Price:       in.Price,
	})
	s.enqueueRequestsMirror(ctx)
	return req, nil
}

// ResolveOffer settles a negotiating request as accepted or rejected. Any
// other starting status is an invalid transition.
func (s *NegotiationService) ResolveOffer(ctx context.Context, requestID string, accepted bool) (models.ServiceRequest, error) {
	current, ok := s.requests.FindByID(requestID)
	if !ok {
		return models.ServiceRequest{}, ErrNotFound
	}
	if current.Status != models.StatusNegotiating {
		return models.ServiceRequest{}, ErrInvalidState
	}

	target := models.StatusRejected
	eventType := events.EventOfferRejected
	if accepted {
		target = models.StatusAccepted
		eventType = events.EventOfferAccepted
	}

	req, ok, err := s.requests.Update(ctx, requestID, func(r *models.ServiceRequest) {
		if r.Status != models.StatusNegotiating {
			return
		}
		r.Status = target
	})
	if err != nil {
		return models.ServiceRequest{}, err
	}
	if !ok || req.Status != target {
		return models.ServiceRequest{}, ErrInvalidState
	}

	metrics.IncTransition("request", target)
	s.publish(eventType, events.OfferEventPayload{
		RequestID:   req.ID,
		Requester:   req.Requester,
		ServiceName: req.ServiceName,
		Provider:    req.Provider,
		Price:       req.FinalPrice,
	})
	s.enqueueRequestsMirror(ctx)
	return req, nil
}

// ResolveSos marks an alert resolved. Only the raiser may resolve, the
// transition is one-way, and no notification is produced.
func (s *NegotiationService) ResolveSos(ctx context.Context, alertID, actor string) (models.SosAlert, error) {
	current, ok := s.alerts.FindByID(alertID)
	if !ok {
		return models.SosAlert{}, ErrNotFound
	}
	if current.Requester != actor {
		return models.SosAlert{}, ErrUnauthorized
	}
	if current.Status != models.SosStatusActive {
		return models.SosAlert{}, ErrInvalidState
	}

	alert, ok, err := s.alerts.Update(ctx, alertID, func(a *models.SosAlert) {
		if a.Status == models.SosStatusActive {
			a.Status = models.SosStatusResolved
		}
	})
	if err != nil {
		return models.SosAlert{}, err
	}
	if !ok {
		return models.SosAlert{}, ErrNotFound
	}

	metrics.IncTransition("sos", models.SosStatusResolved)
	s.logger.Info().Str("alert_id", alertID).Str("requester", actor).Msg("sos alert resolved")
	return alert, nil
}

func (s *NegotiationService) publish(eventType string, payload interface{}) {
	if s.bus == nil {
		return
	}
	if err := s.bus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}
