package service

import (
	"context"
	"strings"
	"time"

	"helpme/internal/models"
)

// Sheet titles and headers for the spreadsheet mirror. Only the two
// negotiable collections are mirrored; the rest have no lifecycle worth a
// live report.
const (
	sheetSpots    = "ParkingSpots"
	sheetRequests = "ServiceRequests"
)

var spotHeader = []string{"ID", "Owner", "Region", "Address", "Duration (h)", "Taken", "Requester", "Created"}

var requestHeader = []string{"ID", "Requester", "Service", "Suggested", "Final", "Status", "Provider"}

func spotRows(spots []models.ParkingSpot) [][]interface{} {
	rows := make([][]interface{}, 0, len(spots))
	for _, sp := range spots {
		rows = append(rows, []interface{}{
			sp.ID,
			sp.Owner,
			sp.Region,
			sp.Address,
			sp.DurationHours,
			sp.IsTaken,
			sp.Requester,
			time.UnixMilli(sp.CreatedAt).Format(time.RFC3339),
		})
	}
	return rows
}

func requestRows(reqs []models.ServiceRequest) [][]interface{} {
	rows := make([][]interface{}, 0, len(reqs))
	for _, r := range reqs {
		rows = append(rows, []interface{}{
			r.ID,
			r.Requester,
			r.ServiceName,
			r.SuggestedPrice,
			r.FinalPrice,
			strings.ToUpper(r.Status),
			r.Provider,
		})
	}
	return rows
}

func (s *ListingService) enqueueSpotsMirror(ctx context.Context) {
	if s.mirror == nil {
		return
	}
	_ = s.mirror.EnqueueSnapshot(ctx, sheetSpots, spotHeader, spotRows(s.spots.All()))
}

func (s *ListingService) enqueueRequestsMirror(ctx context.Context) {
	if s.mirror == nil {
		return
	}
	_ = s.mirror.EnqueueSnapshot(ctx, sheetRequests, requestHeader, requestRows(s.requests.All()))
}

func (s *NegotiationService) enqueueSpotsMirror(ctx context.Context) {
	if s.mirror == nil {
		return
	}
	_ = s.mirror.EnqueueSnapshot(ctx, sheetSpots, spotHeader, spotRows(s.spots.All()))
}

func (s *NegotiationService) enqueueRequestsMirror(ctx context.Context) {
	if s.mirror == nil {
		return
	}
	_ = s.mirror.EnqueueSnapshot(ctx, sheetRequests, requestHeader, requestRows(s.requests.All()))
}
