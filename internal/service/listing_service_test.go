package service

import (
	"context"
	"io"
	"testing"

	"helpme/internal/models"
	"helpme/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingService_AddSpot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	spot, err := env.listings.AddSpot(ctx, SpotInput{
		Address:        "5 Tahrir Sq",
		Region:         "Downtown",
		LocationLink:   "https://maps.google.com/?q=x",
		PaymentMethods: []models.PaymentMethod{{Type: models.PaymentCash}},
		DurationHours:  2,
	}, "alice")
	require.NoError(t, err)

	assert.NotEmpty(t, spot.ID)
	assert.Equal(t, "alice", spot.Owner)
	assert.False(t, spot.IsTaken)
	assert.Empty(t, spot.Requester)
	assert.NotZero(t, spot.CreatedAt)

	all := env.listings.Spots()
	require.Len(t, all, 1)
	assert.Equal(t, spot, all[0])
}

func TestListingService_AddListingDispatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name string
		kind string
		raw  string
		want func(t *testing.T, got interface{})
	}{
		{
			name: "Parking",
			kind: models.KindParking,
			raw:  `{"address":"1 A St","region":"Zamalek","durationHours":4}`,
			want: func(t *testing.T, got interface{}) {
				spot, ok := got.(models.ParkingSpot)
				require.True(t, ok)
				assert.Equal(t, "Zamalek", spot.Region)
				assert.Equal(t, 4, spot.DurationHours)
			},
		},
		{
			name: "Service",
			kind: models.KindService,
			raw:  `{"serviceName":"dog walking","suggestedPrice":30,"deliveryMethod":"delivery"}`,
			want: func(t *testing.T, got interface{}) {
				req, ok := got.(models.ServiceRequest)
				require.True(t, ok)
				assert.Equal(t, models.StatusPending, req.Status)
				assert.Equal(t, 30, req.SuggestedPrice)
			},
		},
		{
			name: "Carpool",
			kind: models.KindCarpool,
			raw:  `{"from":"Maadi","to":"Smart Village","time":"08:30","seats":3,"price":60}`,
			want: func(t *testing.T, got interface{}) {
				ride, ok := got.(models.CarpoolRide)
				require.True(t, ok)
				assert.Equal(t, 3, ride.Seats)
				assert.Equal(t, "bob", ride.Driver)
			},
		},
		{
			name: "LostFound",
			kind: models.KindLostFound,
			raw:  `{"type":"lost","itemName":"keys","location":"gate 2"}`,
			want: func(t *testing.T, got interface{}) {
				item, ok := got.(models.LostItem)
				require.True(t, ok)
				assert.Equal(t, models.LostItemLost, item.Type)
			},
		},
		{
			name: "Sos",
			kind: models.KindSos,
			raw:  `{"issueType":"battery","location":"garage B"}`,
			want: func(t *testing.T, got interface{}) {
				alert, ok := got.(models.SosAlert)
				require.True(t, ok)
				assert.Equal(t, models.SosStatusActive, alert.Status)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := env.listings.AddListing(ctx, tc.kind, []byte(tc.raw), "bob")
			require.NoError(t, err)
			tc.want(t, got)
		})
	}

	t.Run("UnknownKind", func(t *testing.T) {
		_, err := env.listings.AddListing(ctx, "garage-sale", []byte(`{}`), "bob")
		assert.ErrorIs(t, err, ErrUnknownKind)
	})

	t.Run("MalformedPayload", func(t *testing.T) {
		_, err := env.listings.AddListing(ctx, models.KindParking, []byte(`{"durationHours":"four"}`), "bob")
		assert.Error(t, err)
	})
}

// A collection rebuilt over the same store sees everything a previous
// instance persisted, byte-for-byte through JSON.
func TestListingService_SurvivesRestart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	logger := zerolog.New(io.Discard)

	spot, err := env.listings.AddSpot(ctx, SpotInput{Address: "old garage", Region: "Heliopolis"}, "alice")
	require.NoError(t, err)
	_, err = env.negotiations.RequestSpot(ctx, spot.ID, "bob")
	require.NoError(t, err)

	reloaded := repository.NewCollection(env.store, models.KeySpots, func(s models.ParkingSpot) string { return s.ID }, &logger)
	require.True(t, reloaded.Load(ctx))

	got, ok := reloaded.FindByID(spot.ID)
	require.True(t, ok)
	assert.Equal(t, "bob", got.Requester)
	assert.Equal(t, "Heliopolis", got.Region)
	assert.Equal(t, spot.CreatedAt, got.CreatedAt)
}
