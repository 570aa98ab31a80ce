package api

import (
	"context"

	"github.com/desertthunder/spotkit/internal/models"
	"github.com/desertthunder/spotkit/internal/pager"
)

// Show retrieves a podcast by ID.
func (c *Client) Show(ctx context.Context, id, market string) (models.FullShow, error) {
	if err := requireID("show", id); err != nil {
		return models.FullShow{}, err
	}
	return get[models.FullShow](ctx, c, "/shows/"+seg(id), NewParams().Set("market", market))
}

// Shows retrieves up to 50 podcasts.
func (c *Client) Shows(ctx context.Context, ids []string, market string) ([]models.SimplifiedShow, error) {
	if err := requireIDs("show", ids, 50); err != nil {
		return nil, err
	}
	out, err := get[models.SimplifiedShows](ctx, c, "/shows", NewParams().SetJoined("ids", ids).Set("market", market))
	return out.Shows, err
}

// ShowEpisodes retrieves the first page of a podcast's episodes.
func (c *Client) ShowEpisodes(ctx context.Context, id string, opts PageOptions) (pager.Page[models.SimplifiedEpisode], error) {
	if err := requireID("show", id); err != nil {
		return pager.Page[models.SimplifiedEpisode]{}, err
	}
	return get[pager.Page[models.SimplifiedEpisode]](ctx, c, "/shows/"+seg(id)+"/episodes", opts.params())
}

// ShowEpisodesPager streams every episode of a podcast.
func (c *Client) ShowEpisodesPager(ctx context.Context, id string, opts PageOptions) (*pager.Pager[models.SimplifiedEpisode], error) {
	page, err := c.ShowEpisodes(ctx, id, opts)
	return offsetPager(c, page, err)
}

// Episode retrieves an episode by ID.
func (c *Client) Episode(ctx context.Context, id, market string) (models.FullEpisode, error) {
	if err := requireID("episode", id); err != nil {
		return models.FullEpisode{}, err
	}
	return get[models.FullEpisode](ctx, c, "/episodes/"+seg(id), NewParams().Set("market", market))
}

// Episodes retrieves up to 50 episodes.
func (c *Client) Episodes(ctx context.Context, ids []string, market string) ([]models.FullEpisode, error) {
	if err := requireIDs("episode", ids, 50); err != nil {
		return nil, err
	}
	out, err := get[models.FullEpisodes](ctx, c, "/episodes", NewParams().SetJoined("ids", ids).Set("market", market))
	return out.Episodes, err
}
