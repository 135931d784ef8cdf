package service

import (
	"context"
	"fmt"

	"helpme/internal/models"
	"helpme/internal/repository"
	"helpme/internal/store"

	"github.com/rs/zerolog"
)

// SettingsService owns the admin-managed surface: the app name, the raw
// custom HTML block, the advertisement marquee and the suggested-app links.
type SettingsService struct {
	st     store.Store
	ads    *repository.Collection[models.Advertisement]
	links  *repository.Collection[models.AppLink]
	logger *zerolog.Logger
}

func NewSettingsService(
	st store.Store,
	ads *repository.Collection[models.Advertisement],
	links *repository.Collection[models.AppLink],
	logger *zerolog.Logger,
) *SettingsService {
	return &SettingsService{st: st, ads: ads, links: links, logger: logger}
}

// AppName returns the configured name, falling back to the default.
func (s *SettingsService) AppName(ctx context.Context) (string, error) {
	raw, found, err := s.st.Get(ctx, models.KeyAppName)
	if err != nil {
		return "", err
	}
	if !found || len(raw) == 0 {
		return models.DefaultAppName, nil
	}
	return string(raw), nil
}

func (s *SettingsService) SetAppName(ctx context.Context, name string) error {
	return s.st.Set(ctx, models.KeyAppName, []byte(name))
}

// CustomHTML returns the stored block verbatim. The content is opaque to
// the backend; sanitization is the rendering client's problem.
func (s *SettingsService) CustomHTML(ctx context.Context) (string, error) {
	raw, found, err := s.st.Get(ctx, models.KeyCustomHTML)
	if err != nil {
		return "", err
	}
	if !found {
		return "", nil
	}
	return string(raw), nil
}

func (s *SettingsService) SetCustomHTML(ctx context.Context, html string) error {
	return s.st.Set(ctx, models.KeyCustomHTML, []byte(html))
}

func (s *SettingsService) Ads() []models.Advertisement {
	return s.ads.All()
}

func (s *SettingsService) AddAd(ctx context.Context, content, link, thumbnail string) (models.Advertisement, error) {
	ad := models.Advertisement{
		ID:        newID(),
		Content:   content,
		Link:      link,
		Thumbnail: thumbnail,
	}
	if err := s.ads.Add(ctx, ad); err != nil {
		return models.Advertisement{}, err
	}
	return ad, nil
}

func (s *SettingsService) DeleteAd(ctx context.Context, id string) error {
	kept := s.ads.Filter(func(a models.Advertisement) bool { return a.ID != id })
	if len(kept) == s.ads.Len() {
		return ErrNotFound
	}
	return s.ads.Replace(ctx, kept)
}

func (s *SettingsService) Links() []models.AppLink {
	return s.links.All()
}

// ReplaceLinks swaps the whole suggested-app list, the way the admin panel
// edits it.
func (s *SettingsService) ReplaceLinks(ctx context.Context, links []models.AppLink) error {
	return s.links.Replace(ctx, links)
}

// SeedLinks persists the given links only when the collection has never been
// saved before. An admin clearing the list to empty is a saved state and is
// left alone. Returns whether the seed was applied.
func (s *SettingsService) SeedLinks(ctx context.Context, everLoaded bool, links []models.AppLink) (bool, error) {
	if everLoaded {
		return false, nil
	}
	if err := s.links.Replace(ctx, links); err != nil {
		return false, err
	}
	s.logger.Info().Int("count", len(links)).Msg("seeded suggested app links")
	return true, nil
}

// DefaultLinks builds the placeholder suggested-app entries.
func DefaultLinks() []models.AppLink {
	links := make([]models.AppLink, 0, models.SeedLinkCount)
	for i := 0; i < models.SeedLinkCount; i++ {
		links = append(links, models.AppLink{
			ID:          fmt.Sprintf("link-%d", i),
			Name:        fmt.Sprintf("تطبيق مقترح %d", i+1),
			Description: "وصف مختصر للتطبيق",
			URL:         "https://google.com",
			Thumbnail:   fmt.Sprintf("https://picsum.photos/100/100?random=%d", i),
		})
	}
	return links
}
