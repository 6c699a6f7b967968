package webworld

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/quietloop/mctsagent/internal/generics"
	"github.com/quietloop/mctsagent/internal/mcts"
)

// Scorer is the SearchConfig: it enumerates a page's outgoing links as
// actions (dropping anything that doesn't look like HTML) and scores them
// against cfg.TargetPhrases, cheaply from anchor text (FastReward) and
// precisely from the fetched page's markdown (Reward, via Aux — see
// session.go's fetch).
type Scorer struct {
	cfg Config
}

// NewScorer builds a Scorer sharing cfg with a Session over the same crawl.
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// candidateLink is one <a href> found on a page, resolved to an absolute URL.
type candidateLink struct {
	Href string
	Text string
}

// GetActions enumerates state's outgoing links, in document order, after
// concurrently dropping links whose Content-Type isn't HTML.
func (s *Scorer) GetActions(ctx context.Context, state mcts.State) ([]mcts.Action, error) {
	page, ok := state.(*PageState)
	if !ok {
		return nil, errors.Errorf("webworld: get_actions got state of type %T, want *PageState", state)
	}

	links := extractLinks(page.Doc, page.URL)
	kept, err := s.keepHTMLLinks(ctx, links)
	if err != nil {
		return nil, err
	}

	actions := make([]mcts.Action, len(kept))
	for i, link := range kept {
		actions[i] = ClickAction{Href: link.Href, Text: link.Text}
	}
	return actions, nil
}

// FastReward scores action's anchor text against cfg.TargetPhrases, before
// the linked page has even been fetched.
func (s *Scorer) FastReward(state mcts.State, action mcts.Action) (float64, mcts.Details, error) {
	click, ok := action.(ClickAction)
	if !ok {
		return 0, nil, errors.Errorf("webworld: fast_reward got action of type %T, want ClickAction", action)
	}
	score := phraseScore(click.Text, s.cfg.TargetPhrases)
	return score, mcts.Details{"anchor_text": click.Text}, nil
}

// Reward scores the fetched page's markdown (carried in aux by Session.Step)
// against cfg.TargetPhrases.
func (s *Scorer) Reward(ctx context.Context, state mcts.State, action mcts.Action, fastRewardDetails mcts.Details, aux mcts.Aux) (float64, mcts.Details, error) {
	markdown, _ := aux["markdown"].(string)
	score := phraseScore(markdown, s.cfg.TargetPhrases)
	return score, mcts.Details{"markdown_bytes": len(markdown)}, nil
}

// keepHTMLLinks filters links down to those whose target responds with an
// HTML (or absent) Content-Type, checked with bounded-concurrency HEAD
// requests. A broken or slow link is dropped rather than treated as an
// error: a dead link is a fact about the web, not a search_config failure.
func (s *Scorer) keepHTMLLinks(ctx context.Context, links []candidateLink) ([]candidateLink, error) {
	isHTML := make([]bool, len(links))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.cfg.LinkCheckParallelism)
	for i, link := range links {
		eg.Go(func() error {
			isHTML[i] = s.probeHTML(egCtx, link.Href)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	kept := make([]candidateLink, 0, len(links))
	for i, link := range links {
		if isHTML[i] {
			kept = append(kept, link)
		}
	}
	return kept, nil
}

func (s *Scorer) probeHTML(ctx context.Context, href string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, href, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.cfg.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	return contentType == "" || strings.Contains(contentType, "text/html")
}

// extractLinks walks doc's anchors in document order, resolving each href
// against pageURL and dropping fragments, javascript:, mailto: targets, and
// duplicates — so the engine's "child order = action order" invariant holds
// over a deduplicated, navigable link set.
func extractLinks(doc *goquery.Document, pageURL string) []candidateLink {
	base, baseErr := url.Parse(pageURL)
	seen := generics.MakeSet[string]()
	var links []candidateLink

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
			return
		}

		resolved := href
		if baseErr == nil {
			if u, err := url.Parse(href); err == nil {
				resolved = base.ResolveReference(u).String()
			}
		}
		if seen.Has(resolved) {
			return
		}
		seen.Insert(resolved)
		links = append(links, candidateLink{Href: resolved, Text: strings.TrimSpace(sel.Text())})
	})
	return links
}
