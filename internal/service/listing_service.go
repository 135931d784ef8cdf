package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"helpme/internal/domain"
	"helpme/internal/events"
	"helpme/internal/models"
	"helpme/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ListingService creates and reads the five listing collections. Creation
// assigns ids and timestamps; lifecycle transitions live in
// NegotiationService.
type ListingService struct {
	spots    *repository.Collection[models.ParkingSpot]
	requests *repository.Collection[models.ServiceRequest]
	rides    *repository.Collection[models.CarpoolRide]
	lost     *repository.Collection[models.LostItem]
	alerts   *repository.Collection[models.SosAlert]
	bus      domain.EventPublisher
	mirror   domain.SyncWorker
	logger   *zerolog.Logger
}

func NewListingService(
	spots *repository.Collection[models.ParkingSpot],
	requests *repository.Collection[models.ServiceRequest],
	rides *repository.Collection[models.CarpoolRide],
	lost *repository.Collection[models.LostItem],
	alerts *repository.Collection[models.SosAlert],
	bus domain.EventPublisher,
	mirror domain.SyncWorker,
	logger *zerolog.Logger,
) *ListingService {
	return &ListingService{
		spots:    spots,
		requests: requests,
		rides:    rides,
		lost:     lost,
		alerts:   alerts,
		bus:      bus,
		mirror:   mirror,
		logger:   logger,
	}
}

// newID returns a high-entropy identifier. Wall-clock ids from the original
// design collide within one instant; ordering comes from timestamps instead.
func newID() string {
	return uuid.NewString()
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// SpotInput carries the collaborator-entered fields of a parking spot.
type SpotInput struct {
	Address        string                 `json:"address"`
	Region         string                 `json:"region"`
	LocationLink   string                 `json:"locationLink"`
	PaymentMethods []models.PaymentMethod `json:"paymentMethods"`
	Whatsapp       string                 `json:"whatsapp"`
	Description    string                 `json:"description"`
	DurationHours  int                    `json:"durationHours"`
}

type ServiceRequestInput struct {
	ServiceName    string                 `json:"serviceName"`
	SuggestedPrice int                    `json:"suggestedPrice"`
	Phone          string                 `json:"phone"`
	DeliveryMethod string                 `json:"deliveryMethod"`
	MetroStation   string                 `json:"metroStation"`
	LocationLink   string                 `json:"locationLink"`
	PaymentMethods []models.PaymentMethod `json:"paymentMethods"`
}

type CarpoolInput struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Time     string `json:"time"`
	Seats    int    `json:"seats"`
	Price    int    `json:"price"`
	Phone    string `json:"phone"`
	CarModel string `json:"carModel"`
}

type LostItemInput struct {
	Type        string `json:"type"`
	ItemName    string `json:"itemName"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Contact     string `json:"contact"`
	Date        string `json:"date"`
}

type SosInput struct {
	IssueType string `json:"issueType"`
	Location  string `json:"location"`
	Phone     string `json:"phone"`
}

func (s *ListingService) AddSpot(ctx context.Context, in SpotInput, owner string) (models.ParkingSpot, error) {
	spot := models.ParkingSpot{
		ID:             newID(),
		Owner:          owner,
		Address:        in.Address,
		Region:         in.Region,
		LocationLink:   in.LocationLink,
		PaymentMethods: in.PaymentMethods,
		Whatsapp:       in.Whatsapp,
		Description:    in.Description,
		DurationHours:  in.DurationHours,
		CreatedAt:      nowMillis(),
		IsTaken:        false,
	}
	if err := s.spots.Add(ctx, spot); err != nil {
		return models.ParkingSpot{}, err
	}
	s.logger.Info().Str("spot_id", spot.ID).Str("owner", owner).Msg("parking spot listed")
	s.enqueueSpotsMirror(ctx)
	return spot, nil
}

func (s *ListingService) AddServiceRequest(ctx context.Context, in ServiceRequestInput, requester string) (models.ServiceRequest, error) {
	req := models.ServiceRequest{
		ID:             newID(),
		Requester:      requester,
		ServiceName:    in.ServiceName,
		SuggestedPrice: in.SuggestedPrice,
		Phone:          in.Phone,
		DeliveryMethod: in.DeliveryMethod,
		MetroStation:   in.MetroStation,
		LocationLink:   in.LocationLink,
		PaymentMethods: in.PaymentMethods,
		Status:         models.StatusPending,
	}
	if err := s.requests.Add(ctx, req); err != nil {
		return models.ServiceRequest{}, err
	}
	s.logger.Info().Str("request_id", req.ID).Str("requester", requester).Msg("service request listed")
	s.enqueueRequestsMirror(ctx)
	return req, nil
}

func (s *ListingService) AddCarpool(ctx context.Context, in CarpoolInput, driver string) (models.CarpoolRide, error) {
	ride := models.CarpoolRide{
		ID:       newID(),
		Driver:   driver,
		From:     in.From,
		To:       in.To,
		Time:     in.Time,
		Seats:    in.Seats,
		Price:    in.Price,
		Phone:    in.Phone,
		CarModel: in.CarModel,
	}
	if err := s.rides.Add(ctx, ride); err != nil {
		return models.CarpoolRide{}, err
	}
	return ride, nil
}

func (s *ListingService) AddLostItem(ctx context.Context, in LostItemInput, reporter string) (models.LostItem, error) {
	item := models.LostItem{
		ID:          newID(),
		Reporter:    reporter,
		Type:        in.Type,
		ItemName:    in.ItemName,
		Description: in.Description,
		Location:    in.Location,
		Contact:     in.Contact,
		Date:        in.Date,
	}
	if err := s.lost.Add(ctx, item); err != nil {
		return models.LostItem{}, err
	}
	return item, nil
}

// RaiseSos creates an active alert and notifies the admin inbox through the
// event bus.
func (s *ListingService) RaiseSos(ctx context.Context, in SosInput, requester string) (models.SosAlert, error) {
	alert := models.SosAlert{
		ID:        newID(),
		Requester: requester,
		IssueType: in.IssueType,
		Location:  in.Location,
		Phone:     in.Phone,
		Status:    models.SosStatusActive,
		Timestamp: nowMillis(),
	}
	if err := s.alerts.Add(ctx, alert); err != nil {
		return models.SosAlert{}, err
	}

	s.publish(events.EventSosRaised, events.SosEventPayload{
		AlertID:   alert.ID,
		Requester: requester,
		IssueType: alert.IssueType,
	})
	return alert, nil
}

// AddListing dispatches a raw creation payload by kind. It is the single
// entry point the collaborator posts new listings through.
func (s *ListingService) AddListing(ctx context.Context, kind string, raw []byte, owner string) (interface{}, error) {
	switch kind {
	case models.KindParking:
		var in SpotInput
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, fmt.Errorf("decode parking payload: %w", err)
		}
		return s.AddSpot(ctx, in, owner)
	case models.KindService:
		var in ServiceRequestInput
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, fmt.Errorf("decode service payload: %w", err)
		}
		return s.AddServiceRequest(ctx, in, owner)
	case models.KindCarpool:
		var in CarpoolInput
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, fmt.Errorf("decode carpool payload: %w", err)
		}
		return s.AddCarpool(ctx, in, owner)
	case models.KindLostFound:
		var in LostItemInput
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, fmt.Errorf("decode lostfound payload: %w", err)
		}
		return s.AddLostItem(ctx, in, owner)
	case models.KindSos:
		var in SosInput
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, fmt.Errorf("decode sos payload: %w", err)
		}
		return s.RaiseSos(ctx, in, owner)
	default:
		return nil, ErrUnknownKind
	}
}

func (s *ListingService) Spots() []models.ParkingSpot { return s.spots.All() }

func (s *ListingService) Requests() []models.ServiceRequest { return s.requests.All() }

func (s *ListingService) Rides() []models.CarpoolRide { return s.rides.All() }

func (s *ListingService) LostItems() []models.LostItem { return s.lost.All() }

func (s *ListingService) SosAlerts() []models.SosAlert { return s.alerts.All() }

func (s *ListingService) FindSpot(id string) (models.ParkingSpot, bool) {
	return s.spots.FindByID(id)
}

func (s *ListingService) FindRequest(id string) (models.ServiceRequest, bool) {
	return s.requests.FindByID(id)
}

func (s *ListingService) FindRide(id string) (models.CarpoolRide, bool) {
	return s.rides.FindByID(id)
}

func (s *ListingService) FindLostItem(id string) (models.LostItem, bool) {
	return s.lost.FindByID(id)
}

func (s *ListingService) FindSosAlert(id string) (models.SosAlert, bool) {
	return s.alerts.FindByID(id)
}

func (s *ListingService) publish(eventType string, payload interface{}) {
	if s.bus == nil {
		return
	}
	if err := s.bus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}
