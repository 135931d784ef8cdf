package models

// ServiceRequest lifecycle. Requests only ever move
// pending -> negotiating -> accepted|rejected. Completed is a reserved
// terminal state no core operation reaches.
const (
	StatusPending     = "pending"
	StatusNegotiating = "negotiating"
	StatusAccepted    = "accepted"
	StatusRejected    = "rejected"
	StatusCompleted   = "completed"
)

// SosAlert lifecycle.
const (
	SosStatusActive   = "active"
	SosStatusResolved = "resolved"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Notification types.
const (
	NotifyParking = "parking"
	NotifyService = "service"
	NotifySystem  = "system"
	NotifySos     = "sos"
)

// Listing kinds. The values double as deep-link "type" parameters, so they
// keep the original tab names ("busy" is the services tab).
const (
	KindParking   = "parking"
	KindService   = "busy"
	KindCarpool   = "carpool"
	KindLostFound = "lostfound"
	KindSos       = "sos"
)

// Service request delivery methods. Metro hand-off carries a station name.
const (
	DeliveryMetro = "metro"
	DeliveryOther = "other"
)

// Payment method types.
const (
	PaymentInstapay = "instapay"
	PaymentWallet   = "wallet"
	PaymentCash     = "cash"
)

// Lost & found report types.
const (
	LostItemLost  = "lost"
	LostItemFound = "found"
)

// SOS issue types.
const (
	SosIssueBattery  = "battery"
	SosIssueTire     = "tire"
	SosIssueFuel     = "fuel"
	SosIssueAccident = "accident"
	SosIssueOther    = "other"
)

// Store keys. One key per collection; each value is the full JSON-serialized
// collection and is rewritten on every mutation.
const (
	KeyUsers         = "helpMe_users"
	KeySpots         = "helpMe_spots"
	KeyRequests      = "helpMe_requests"
	KeyCarpool       = "helpMe_carpool"
	KeyLostFound     = "helpMe_lostfound"
	KeySos           = "helpMe_sos"
	KeyAds           = "helpMe_ads"
	KeyLinks         = "helpMe_links"
	KeyAppName       = "helpMe_appName"
	KeyCustomHTML    = "helpMe_customHtml"
	KeyNotifications = "helpMe_notifications"
	KeyChat          = "helpMe_chat"
)

const (
	// DefaultAppName is the display name used until an admin changes it.
	DefaultAppName = "Help Me"

	// SeedLinkCount placeholder app links created on first start.
	SeedLinkCount = 4

	// AdminInbox receives system-wide notifications such as new SOS alerts.
	AdminInbox = "admin"

	// WorkerQueueSize is the in-memory mirror queue capacity.
	WorkerQueueSize = 128
)
