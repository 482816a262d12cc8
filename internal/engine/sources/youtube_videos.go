package sources

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_recap/internal/engine"
	"github.com/anatolykoptev/go_recap/internal/engine/browser"
)

// LatestVideo returns the newest upload on the channel's videos tab. Both the
// title and the permalink must be found; a partial ref is never returned.
func (y *YouTube) LatestVideo(ctx context.Context, channelURL string) (engine.VideoRef, error) {
	var ref engine.VideoRef
	noVideos := engine.NotFound("No videos found for channel")

	err := y.withPage(ctx, "latest video", func(page browser.Page) error {
		videosURL := channelBaseURL(channelURL) + "/videos"
		slog.Info("youtube: opening videos tab", slog.String("url", videosURL))
		if err := y.navigate(ctx, page, videosURL); err != nil {
			return err
		}
		y.dismissConsent(ctx, page)

		if _, _, err := browser.Race(ctx, page, y.long(ytVideoGrid)); err != nil {
			if browser.IsNotFound(err) {
				return noVideos
			}
			return engine.Wrap("latest video", err)
		}

		// One scroll to trigger lazy-loaded rows.
		if err := y.sleep(ctx, y.settle); err != nil {
			return err
		}
		if err := page.ScrollBy(ctx, 500); err != nil {
			slog.Debug("youtube: scroll failed", slog.Any("error", err))
		}
		if err := y.sleep(ctx, y.settle); err != nil {
			return err
		}

		items, err := page.QueryAll(ctx, ytGridItem)
		if err != nil {
			return engine.Wrap("latest video", err)
		}
		slog.Debug("youtube: grid items", slog.Int("count", len(items)))
		if len(items) == 0 {
			return noVideos
		}
		first := items[0]

		title, err := browser.TextIn(ctx, first, ytGridItemTitle)
		if err != nil {
			return noVideos
		}
		href, err := browser.AttrIn(ctx, first, ytGridItemLink, "href")
		if err != nil {
			return noVideos
		}
		id := ExtractVideoID(absoluteURL(href))
		if id == "" {
			slog.Debug("youtube: first grid item is not a watch link", slog.String("href", href))
			return noVideos
		}

		ref = engine.VideoRef{ID: id, Title: title, URL: WatchURL(id)}
		return nil
	})
	if err != nil {
		return engine.VideoRef{}, err
	}

	slog.Info("youtube: latest video", slog.String("id", ref.ID), slog.String("title", ref.Title))
	return ref, nil
}
