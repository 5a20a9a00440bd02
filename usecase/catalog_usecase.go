package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"livestream-backend/domain/model"
	"livestream-backend/domain/repository"
	"livestream-backend/infrastructure/configuration"
	"livestream-backend/infrastructure/logger"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
	searchVideoCap  = 50
)

// ListQuery is the catalog listing request. Pagination is 1-indexed.
type ListQuery struct {
	Page     int
	Limit    int
	Category string
	Search   string
	SortBy   string
}

// ICatalogUsecase serves listings, search and per-owner queries. Only
// COMPLETED videos are ever surfaced.
type ICatalogUsecase interface {
	List(ctx context.Context, query ListQuery) (model.VideoPage, error)
	SearchAll(ctx context.Context, term string) (model.SearchResult, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.VideoView, error)
}

type catalogUsecase struct {
	videos   repository.IVideo
	users    repository.IUser
	cache    repository.ICache
	cacheTTL time.Duration
	views    *viewBuilder
}

// NewCatalogUsecase accepts a nil cache, which disables listing caching.
func NewCatalogUsecase(
	videos repository.IVideo,
	users repository.IUser,
	cache repository.ICache,
	cfg configuration.Config,
) ICatalogUsecase {
	return &catalogUsecase{
		videos:   videos,
		users:    users,
		cache:    cache,
		cacheTTL: cfg.Redis.CatalogTTL,
		views:    newViewBuilder(users, cfg.CDN.Domain),
	}
}

func (q *ListQuery) normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageSize
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}
	switch q.SortBy {
	case model.SortOldest, model.SortPopular, model.SortTrending:
	default:
		q.SortBy = model.SortLatest
	}
}

func cacheKey(q ListQuery) string {
	return fmt.Sprintf("catalog:p=%d:l=%d:c=%s:s=%s:o=%s", q.Page, q.Limit, q.Category, q.Search, q.SortBy)
}

func (u *catalogUsecase) List(ctx context.Context, query ListQuery) (model.VideoPage, error) {
	query.normalize()

	key := cacheKey(query)
	if u.cache != nil {
		if raw, err := u.cache.Get(ctx, key); err == nil {
			var page model.VideoPage
			if err := json.Unmarshal(raw, &page); err == nil {
				return page, nil
			}
		}
	}

	filter := model.VideoFilter{
		Status:   model.StatusCompleted,
		Category: query.Category,
		Search:   query.Search,
	}
	total, err := u.videos.Count(ctx, filter)
	if err != nil {
		return model.VideoPage{}, err
	}
	videos, err := u.videos.List(ctx, filter, query.SortBy, query.Page, query.Limit)
	if err != nil {
		return model.VideoPage{}, err
	}

	// Trending ranks by like count on the fetched page only; ranking the
	// whole collection would need a server-side computed field.
	if query.SortBy == model.SortTrending {
		sort.SliceStable(videos, func(i, j int) bool {
			return len(videos[i].Likes) > len(videos[j].Likes)
		})
	}

	views, err := u.views.videoViews(ctx, videos)
	if err != nil {
		return model.VideoPage{}, err
	}

	page := model.VideoPage{
		Data: views,
		Pagination: model.Pagination{
			Total: total,
			Page:  query.Page,
			Pages: int((total + int64(query.Limit) - 1) / int64(query.Limit)),
		},
	}

	if u.cache != nil {
		if raw, err := json.Marshal(page); err == nil {
			if err := u.cache.Set(ctx, key, raw, u.cacheTTL); err != nil {
				logger.GetLogger().WithField("error", err).Debug("Could not cache catalog page")
			}
		}
	}
	return page, nil
}

func (u *catalogUsecase) SearchAll(ctx context.Context, term string) (model.SearchResult, error) {
	result := model.SearchResult{Users: []model.UserRef{}, Videos: []model.VideoView{}}

	term = strings.TrimSpace(term)
	if term == "" {
		return result, nil
	}

	users, err := u.users.SearchByUsername(ctx, term)
	if err != nil {
		return model.SearchResult{}, err
	}
	for _, usr := range users {
		result.Users = append(result.Users, usr.Ref())
	}

	videos, err := u.videos.Search(ctx, term, searchVideoCap)
	if err != nil {
		return model.SearchResult{}, err
	}
	views, err := u.views.videoViews(ctx, videos)
	if err != nil {
		return model.SearchResult{}, err
	}
	result.Videos = views
	return result, nil
}

func (u *catalogUsecase) ListByOwner(ctx context.Context, ownerID string) ([]model.VideoView, error) {
	owner, err := parseUserID(ownerID)
	if err != nil {
		return nil, err
	}
	videos, err := u.videos.ListByOwner(ctx, owner, model.StatusCompleted)
	if err != nil {
		return nil, err
	}
	views, err := u.views.videoViews(ctx, videos)
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []model.VideoView{}
	}
	return views, nil
}
