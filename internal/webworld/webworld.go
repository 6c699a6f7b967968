// Package webworld is a concrete WorldModel/SearchConfig pair that drives the
// mcts engine over a live web site: states are fetched pages, actions are
// clicks on anchors found in the page, and rewards score how close a page's
// content is to a set of target phrases. It is the engine's only real
// collaborator in this repository; every other caller in internal/mcts's
// tests uses hand-rolled stubs.
package webworld

import (
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// maxBodyBytes bounds how much of a fetched page webworld will read, so a
// misbehaving server can't exhaust memory mid-search.
const maxBodyBytes = 2 << 20 // 2 MiB

// defaultAnswerSelector marks the element a page author uses to say "this
// page is a terminal answer" — e.g. <div data-mcts-answer>Paris</div>.
const defaultAnswerSelector = "[data-mcts-answer]"

// defaultUserAgent is sent on every request so a site operator can see which
// crawler is hitting them and why.
const defaultUserAgent = "mctsagent/1.0 (+https://github.com/quietloop/mctsagent)"

// Config bundles everything a Session and Scorer need to know about the site
// being explored. Fields are independent: a caller typically starts from
// DefaultConfig and overrides TargetPhrases and AnswerSelector.
type Config struct {
	// Client issues every HTTP request. Its Timeout bounds a single fetch, not
	// the whole search — that's context.Context's job.
	Client *http.Client

	// UserAgent is sent with every request.
	UserAgent string

	// TargetPhrases is what FastReward/Reward score a page's content against:
	// the fraction of these phrases present in the page (or anchor text)
	// becomes the reward.
	TargetPhrases []string

	// AnswerSelector is the CSS selector a page matches to be considered
	// terminal and to contribute an answer to mcts.Aggregation.
	AnswerSelector string

	// LinkCheckParallelism bounds how many concurrent HEAD requests GetActions
	// issues to filter non-HTML links out of a page's action set.
	LinkCheckParallelism int
}

// DefaultConfig returns a Config with a 10s-timeout client, the default
// answer selector, and a link-check parallelism of 8. TargetPhrases is left
// empty; callers must set it.
func DefaultConfig() Config {
	return Config{
		Client:               &http.Client{Timeout: 10 * time.Second},
		UserAgent:            defaultUserAgent,
		AnswerSelector:       defaultAnswerSelector,
		LinkCheckParallelism: 8,
	}
}

// PageState is the State a Session produces: the fetched page's URL and
// parsed DOM, plus its title for diagnostics (node_visualizer, logs).
type PageState struct {
	URL   string
	Title string
	Doc   *goquery.Document
}

func (p *PageState) String() string {
	if p == nil {
		return "<nil page>"
	}
	return p.URL
}

// ClickAction is the Action a Scorer enumerates: following the href of an
// anchor found on the current page.
type ClickAction struct {
	Href string
	Text string
}

func (c ClickAction) String() string {
	if c.Text == "" {
		return "click(" + c.Href + ")"
	}
	return "click(" + c.Text + " -> " + c.Href + ")"
}

// phraseScore is the shared scoring heuristic behind both FastReward (scored
// against an anchor's visible text, before the target page is fetched) and
// Reward (scored against the fetched page's markdown): the fraction of
// cfg.TargetPhrases that occur, case-insensitively, in text. It is bounded to
// [0, 1], which keeps it usable as a "sample" SimulateChoice probability
// vector as well as a plain reward.
func phraseScore(text string, phrases []string) float64 {
	if len(phrases) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	var matched int
	for _, phrase := range phrases {
		if phrase == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(phrase)) {
			matched++
		}
	}
	return float64(matched) / float64(len(phrases))
}
