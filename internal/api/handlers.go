package api

import (
	"io"
	"net/http"
	"strings"

	"helpme/internal/export"
	"helpme/internal/models"
	"helpme/internal/service"
)

func (s *HTTPServer) requireActor(w http.ResponseWriter, r *http.Request) (string, bool) {
	user := strings.TrimSpace(actor(r))
	if user == "" {
		writeError(w, http.StatusBadRequest, "x-user header is required")
		return "", false
	}
	return user, true
}

// sanitize strips the stored password before a user goes over the wire.
func sanitize(u models.User) models.User {
	u.Password = ""
	return u
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.Username) == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := s.users.Register(r.Context(), body.Username, body.Password, body.Phone)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sanitize(user))
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	user, err := s.users.Authenticate(r.Context(), body.Username, body.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sanitize(user))
}

func (s *HTTPServer) handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	users := s.users.All()
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		out = append(out, sanitize(u))
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": out})
}

func (s *HTTPServer) handleUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	username := strings.TrimPrefix(r.URL.Path, "/api/v1/users/")
	if username == "" || strings.Contains(username, "/") {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	user, err := s.users.Get(username)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sanitize(user))
}

func (s *HTTPServer) handleListings(w http.ResponseWriter, r *http.Request) {
	kind := strings.TrimPrefix(r.URL.Path, "/api/v1/listings/")
	if kind == "" || strings.Contains(kind, "/") {
		writeError(w, http.StatusBadRequest, "listing kind is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.listListings(w, kind)
	case http.MethodPost:
		user, ok := s.requireActor(w, r)
		if !ok {
			return
		}
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unable to read body")
			return
		}
		created, err := s.listings.AddListing(r.Context(), kind, raw, user)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) listListings(w http.ResponseWriter, kind string) {
	switch kind {
	case models.KindParking:
		writeJSON(w, http.StatusOK, map[string]any{"listings": s.listings.Spots()})
	case models.KindService:
		writeJSON(w, http.StatusOK, map[string]any{"listings": s.listings.Requests()})
	case models.KindCarpool:
		writeJSON(w, http.StatusOK, map[string]any{"listings": s.listings.Rides()})
	case models.KindLostFound:
		writeJSON(w, http.StatusOK, map[string]any{"listings": s.listings.LostItems()})
	case models.KindSos:
		writeJSON(w, http.StatusOK, map[string]any{"listings": s.listings.SosAlerts()})
	default:
		writeServiceError(w, service.ErrUnknownKind)
	}
}

func (s *HTTPServer) handleSpotAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id, action, ok := splitAction(r.URL.Path, "/api/v1/spots/")
	if !ok || action != "request" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	user, ok := s.requireActor(w, r)
	if !ok {
		return
	}

	spot, err := s.negotiations.RequestSpot(r.Context(), id, user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spot)
}

func (s *HTTPServer) handleRequestAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id, action, ok := splitAction(r.URL.Path, "/api/v1/requests/")
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch action {
	case "offer":
		user, ok := s.requireActor(w, r)
		if !ok {
			return
		}
		var body service.OfferInput
		if !decodeBody(w, r, &body) {
			return
		}
		req, err := s.negotiations.MakeOffer(r.Context(), id, user, body)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, req)
	case "resolve":
		var body struct {
			Accepted bool `json:"accepted"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		req, err := s.negotiations.ResolveOffer(r.Context(), id, body.Accepted)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, req)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *HTTPServer) handleSosAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id, action, ok := splitAction(r.URL.Path, "/api/v1/sos/")
	if !ok || action != "resolve" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	user, ok := s.requireActor(w, r)
	if !ok {
		return
	}

	alert, err := s.negotiations.ResolveSos(r.Context(), id, user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, alert)
}

func (s *HTTPServer) handleNotifications(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		user, ok := s.requireActor(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"notifications": s.notifications.InboxFor(user),
			"unread":        s.notifications.UnreadCountFor(user),
		})
	case http.MethodDelete:
		if err := s.notifications.ClearAll(r.Context()); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	user, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	if err := s.notifications.MarkAllReadFor(r.Context(), user); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (s *HTTPServer) handleMessages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		user, ok := s.requireActor(w, r)
		if !ok {
			return
		}
		with := strings.TrimSpace(r.URL.Query().Get("with"))
		if with == "" {
			writeError(w, http.StatusBadRequest, "with is required")
			return
		}
		related := strings.TrimSpace(r.URL.Query().Get("relatedItemId"))
		writeJSON(w, http.StatusOK, map[string]any{
			"messages": s.chat.Conversation(user, with, related),
		})
	case http.MethodPost:
		user, ok := s.requireActor(w, r)
		if !ok {
			return
		}
		var body struct {
			Receiver      string `json:"receiver"`
			Content       string `json:"content"`
			RelatedItemID string `json:"relatedItemId"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if strings.TrimSpace(body.Receiver) == "" || strings.TrimSpace(body.Content) == "" {
			writeError(w, http.StatusBadRequest, "receiver and content are required")
			return
		}
		msg, err := s.chat.Send(r.Context(), user, body.Receiver, body.Content, body.RelatedItemID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleShareLink(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Type == "" || body.ID == "" {
		writeError(w, http.StatusBadRequest, "type and id are required")
		return
	}

	link, err := s.share.Encode(body.Type, body.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": link})
}

func (s *HTTPServer) handleShareResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	kind := r.URL.Query().Get("type")
	id := r.URL.Query().Get("id")

	// Dead and malformed links resolve to nothing rather than an error.
	target, ok := s.share.Resolve(kind, id)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"resolved": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"resolved": true, "target": target})
}

func (s *HTTPServer) handleAdminSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		name, err := s.settings.AppName(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		html, err := s.settings.CustomHTML(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"appName": name, "customHtml": html})
	case http.MethodPut:
		var body struct {
			AppName    *string `json:"appName"`
			CustomHTML *string `json:"customHtml"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.AppName != nil {
			if err := s.settings.SetAppName(r.Context(), *body.AppName); err != nil {
				writeServiceError(w, err)
				return
			}
		}
		if body.CustomHTML != nil {
			if err := s.settings.SetCustomHTML(r.Context(), *body.CustomHTML); err != nil {
				writeServiceError(w, err)
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleAdminAds(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"ads": s.settings.Ads()})
	case http.MethodPost:
		var body struct {
			Content   string `json:"content"`
			Link      string `json:"link"`
			Thumbnail string `json:"thumbnail"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if strings.TrimSpace(body.Content) == "" {
			writeError(w, http.StatusBadRequest, "content is required")
			return
		}
		ad, err := s.settings.AddAd(r.Context(), body.Content, body.Link, body.Thumbnail)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, ad)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleAdminAdDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/admin/ads/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "ad id is required")
		return
	}

	if err := s.settings.DeleteAd(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *HTTPServer) handleAdminLinks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"links": s.settings.Links()})
	case http.MethodPut:
		var body struct {
			Links []models.AppLink `json:"links"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if err := s.settings.ReplaceLinks(r.Context(), body.Links); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"links": s.settings.Links()})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleAdminExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "export is not configured")
		return
	}

	path, err := s.exporter.Export(export.Snapshot{
		Users:     s.users.All(),
		Spots:     s.listings.Spots(),
		Requests:  s.listings.Requests(),
		Rides:     s.listings.Rides(),
		LostItems: s.listings.LostItems(),
		SosAlerts: s.listings.SosAlerts(),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}

// splitAction parses "<prefix><id>/<action>" paths.
func splitAction(path, prefix string) (id, action string, ok bool) {
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
