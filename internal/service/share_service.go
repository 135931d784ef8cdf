package service

import (
	"net/url"

	"helpme/internal/models"

	"github.com/rs/zerolog"
)

// ShareTarget tells a client where a share link points: which tab to open
// and, for parking and service listings, which record to show in detail.
type ShareTarget struct {
	Tab    string `json:"tab"`
	ItemID string `json:"itemId,omitempty"`
}

// ShareService encodes and resolves deep links of the form
// <base>?type=<kind>&id=<id>.
type ShareService struct {
	baseURL  string
	listings *ListingService
	logger   *zerolog.Logger
}

func NewShareService(baseURL string, listings *ListingService, logger *zerolog.Logger) *ShareService {
	return &ShareService{baseURL: baseURL, listings: listings, logger: logger}
}

// Encode builds a shareable link for a listing.
func (s *ShareService) Encode(kind, id string) (string, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("type", kind)
	q.Set("id", id)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Decode extracts the kind and id from a share link. Malformed links decode
// to empty values, never to an error surfaced at the caller.
func (s *ShareService) Decode(link string) (kind, id string) {
	u, err := url.Parse(link)
	if err != nil {
		return "", ""
	}
	q := u.Query()
	return q.Get("type"), q.Get("id")
}

// Resolve maps a (kind, id) pair to a navigation target. Parking and service
// links open the record detail when the id still resolves, and fall back to
// nothing at all when it does not; the remaining kinds only select their
// tab. Unknown kinds resolve to nothing. Stale links are dropped silently,
// matching the product behavior of never showing an error for a dead link.
func (s *ShareService) Resolve(kind, id string) (ShareTarget, bool) {
	switch kind {
	case models.KindParking:
		if _, ok := s.listings.FindSpot(id); ok {
			return ShareTarget{Tab: models.KindParking, ItemID: id}, true
		}
		return ShareTarget{}, false
	case models.KindService:
		if _, ok := s.listings.FindRequest(id); ok {
			return ShareTarget{Tab: models.KindService, ItemID: id}, true
		}
		return ShareTarget{}, false
	case models.KindCarpool, models.KindLostFound, models.KindSos:
		return ShareTarget{Tab: kind}, true
	default:
		return ShareTarget{}, false
	}
}
