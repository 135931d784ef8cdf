package service

import (
	"context"
	"testing"

	"helpme/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareService_EncodeDecode(t *testing.T) {
	env := newTestEnv(t)

	link, err := env.share.Encode(models.KindParking, "abc-123")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/app?id=abc-123&type=parking", link)

	kind, id := env.share.Decode(link)
	assert.Equal(t, models.KindParking, kind)
	assert.Equal(t, "abc-123", id)

	t.Run("MalformedLink", func(t *testing.T) {
		kind, id := env.share.Decode("://not a url")
		assert.Empty(t, kind)
		assert.Empty(t, id)
	})
}

func TestShareService_Resolve(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	spot, err := env.listings.AddSpot(ctx, SpotInput{Region: "Maadi"}, "alice")
	require.NoError(t, err)
	req, err := env.listings.AddServiceRequest(ctx, ServiceRequestInput{ServiceName: "errand"}, "bob")
	require.NoError(t, err)

	t.Run("ParkingOpensDetail", func(t *testing.T) {
		target, ok := env.share.Resolve(models.KindParking, spot.ID)
		require.True(t, ok)
		assert.Equal(t, ShareTarget{Tab: models.KindParking, ItemID: spot.ID}, target)
	})

	t.Run("ServiceOpensDetail", func(t *testing.T) {
		target, ok := env.share.Resolve(models.KindService, req.ID)
		require.True(t, ok)
		assert.Equal(t, req.ID, target.ItemID)
	})

	t.Run("StaleIDDropsSilently", func(t *testing.T) {
		_, ok := env.share.Resolve(models.KindParking, "gone")
		assert.False(t, ok)
	})

	t.Run("TabOnlyKinds", func(t *testing.T) {
		for _, kind := range []string{models.KindCarpool, models.KindLostFound, models.KindSos} {
			target, ok := env.share.Resolve(kind, "ignored")
			require.True(t, ok, kind)
			assert.Equal(t, ShareTarget{Tab: kind}, target)
		}
	})

	t.Run("UnknownKind", func(t *testing.T) {
		_, ok := env.share.Resolve("garage-sale", "x")
		assert.False(t, ok)
	})
}
