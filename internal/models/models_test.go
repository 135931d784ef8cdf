package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The persisted JSON shape is a compatibility contract with previously
// saved collections; field names must stay exactly as they are.
func TestParkingSpotJSONShape(t *testing.T) {
	spot := ParkingSpot{
		ID:             "s1",
		Owner:          "alice",
		Address:        "5 Nile St",
		Region:         "Maadi",
		LocationLink:   "https://maps.google.com/?q=x",
		PaymentMethods: []PaymentMethod{{Type: PaymentCash}},
		Whatsapp:       "0100",
		DurationHours:  3,
		CreatedAt:      1700000000000,
		IsTaken:        false,
		Requester:      "bob",
	}

	raw, err := json.Marshal(spot)
	require.NoError(t, err)

	var asMap map[string]any
	require.NoError(t, json.Unmarshal(raw, &asMap))
	for _, key := range []string{"id", "owner", "locationLink", "paymentMethods", "durationHours", "createdAt", "isTaken", "requester"} {
		assert.Contains(t, asMap, key)
	}

	var back ParkingSpot
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, spot, back)
}

func TestServiceRequestJSONShape(t *testing.T) {
	req := ServiceRequest{
		ID:             "r1",
		Requester:      "alice",
		ServiceName:    "pharmacy run",
		SuggestedPrice: 50,
		FinalPrice:     70,
		DeliveryMethod: DeliveryMetro,
		MetroStation:   "Sadat",
		Status:         StatusNegotiating,
		Provider:       "bob",
		ProviderPhone:  "0100",
	}

	raw, err := json.Marshal(req)
	require.NoError(t, err)

	var asMap map[string]any
	require.NoError(t, json.Unmarshal(raw, &asMap))
	for _, key := range []string{"serviceName", "suggestedPrice", "finalPrice", "deliveryMethod", "metroStation", "providerPhone"} {
		assert.Contains(t, asMap, key)
	}

	var back ServiceRequest
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, req, back)
}

func TestServiceRequestTerminal(t *testing.T) {
	cases := []struct {
		status   string
		terminal bool
	}{
		{StatusPending, false},
		{StatusNegotiating, false},
		{StatusAccepted, true},
		{StatusRejected, true},
		{StatusCompleted, true},
	}
	for _, tc := range cases {
		req := ServiceRequest{Status: tc.status}
		assert.Equal(t, tc.terminal, req.Terminal(), tc.status)
	}
}

func TestChatMessageBetween(t *testing.T) {
	msg := ChatMessage{Sender: "alice", Receiver: "bob"}

	assert.True(t, msg.Between("alice", "bob"))
	assert.True(t, msg.Between("bob", "alice"))
	assert.False(t, msg.Between("alice", "carol"))
}

func TestUserJSON(t *testing.T) {
	user := User{Username: "alice", Role: RoleUser}

	raw, err := json.Marshal(user)
	require.NoError(t, err)

	// Empty password and phone are omitted entirely.
	var asMap map[string]any
	require.NoError(t, json.Unmarshal(raw, &asMap))
	assert.NotContains(t, asMap, "password")
	assert.NotContains(t, asMap, "phone")

	assert.False(t, user.IsAdmin())
	assert.True(t, User{Role: RoleAdmin}.IsAdmin())
}
