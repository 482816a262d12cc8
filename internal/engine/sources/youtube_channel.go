package sources

import (
	"context"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_recap/internal/engine"
	"github.com/anatolykoptev/go_recap/internal/engine/browser"
)

// ResolveChannel turns a channel name, @handle or channel URL into a ChannelRef
// with an absolute URL. URLs and handles are taken as-is; anything else goes
// through a site search where a channel card or a video card must show up.
func (y *YouTube) ResolveChannel(ctx context.Context, input string) (engine.ChannelRef, error) {
	input = strings.TrimSpace(input)
	ref := engine.ChannelRef{Input: input}

	if u, ok := channelURLFromInput(input); ok {
		ref.URL = u
		slog.Debug("youtube: channel url given, skipping search", slog.String("url", u))
		return ref, nil
	}

	notFound := engine.NotFound("Channel not found: " + input)
	err := y.withPage(ctx, "resolve channel", func(page browser.Page) error {
		slog.Info("youtube: searching channel", slog.String("query", input))
		if err := y.navigate(ctx, page, searchURL(input)); err != nil {
			return err
		}
		y.dismissConsent(ctx, page)

		card, which, err := browser.Race(ctx, page, ytSearchResult)
		if err != nil {
			if browser.IsNotFound(err) {
				slog.Debug("youtube: no channel or video card in search results")
				return notFound
			}
			return engine.Wrap("resolve channel", err)
		}

		link := ytChannelCardLink
		if which == ytRaceVideoCard {
			link = ytVideoCardChannelLink
		}
		href, err := browser.AttrIn(ctx, card, link, "href")
		if err != nil {
			if browser.IsNotFound(err) {
				return notFound
			}
			return engine.Wrap("resolve channel", err)
		}
		ref.URL = channelBaseURL(absoluteURL(href))
		if !IsChannelURL(ref.URL) {
			slog.Debug("youtube: card link is not a channel", slog.String("href", href))
			return notFound
		}

		if name, err := browser.TextIn(ctx, card, ytCardChannelName); err == nil {
			ref.Name = strings.TrimSpace(name)
		}
		return nil
	})
	if err != nil {
		return engine.ChannelRef{Input: input}, err
	}

	slog.Info("youtube: channel resolved", slog.String("url", ref.URL), slog.String("name", ref.Name))
	return ref, nil
}

// ChannelDisplayName reads the channel's display name from its page. A missing
// name is not an error; callers fall back to the raw input.
func (y *YouTube) ChannelDisplayName(ctx context.Context, channelURL string) (string, bool) {
	var name string
	err := y.withPage(ctx, "channel name", func(page browser.Page) error {
		if err := y.navigate(ctx, page, channelURL); err != nil {
			return err
		}
		y.dismissConsent(ctx, page)
		el, err := browser.Locate(ctx, page, ytChannelName)
		if err != nil {
			return err
		}
		name, err = el.Text(ctx)
		return err
	})
	name = strings.TrimSpace(name)
	if err != nil || name == "" {
		slog.Debug("youtube: channel name unavailable", slog.String("url", channelURL), slog.Any("error", err))
		return "", false
	}
	return name, true
}
