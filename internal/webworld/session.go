package webworld

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/quietloop/mctsagent/internal/mcts"
)

// Session is the WorldModel: it fetches pages over HTTP and hands each one's
// markdown conversion to the caller through Aux, so Scorer.Reward (see
// scorer.go) can score the page it is paired with without re-fetching it.
// Each Session gets its own ID so concurrent bench runs (cmd/mctsagent) can
// be told apart in logs.
type Session struct {
	ID       uuid.UUID
	cfg      Config
	startURL string

	converter *md.Converter
}

// NewSession builds a Session that starts crawling at startURL.
func NewSession(cfg Config, startURL string) *Session {
	return &Session{
		ID:        uuid.New(),
		cfg:       cfg,
		startURL:  startURL,
		converter: md.NewConverter("", true, nil),
	}
}

// InitState fetches startURL.
func (s *Session) InitState(ctx context.Context) (mcts.State, error) {
	state, _, err := s.fetch(ctx, s.startURL)
	if err != nil {
		return nil, errors.Wrap(err, "webworld: init_state")
	}
	return state, nil
}

// Step follows action's href, returning the fetched page and an Aux payload
// carrying the page's markdown conversion and HTTP status for Scorer.Reward.
func (s *Session) Step(ctx context.Context, state mcts.State, action mcts.Action) (mcts.State, mcts.Aux, error) {
	click, ok := action.(ClickAction)
	if !ok {
		return nil, nil, errors.Errorf("webworld: step got action of type %T, want ClickAction", action)
	}
	next, aux, err := s.fetch(ctx, click.Href)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "webworld: step to %s", click.Href)
	}
	return next, aux, nil
}

// IsTerminal reports whether state's page matches cfg.AnswerSelector.
func (s *Session) IsTerminal(ctx context.Context, state mcts.State) (bool, error) {
	page, ok := state.(*PageState)
	if !ok {
		return false, errors.Errorf("webworld: is_terminal got state of type %T, want *PageState", state)
	}
	return page.Doc.Find(s.cfg.AnswerSelector).Length() > 0, nil
}

// fetch GETs rawURL, parses it as HTML and converts it to markdown, and
// returns both: the DOM becomes the next PageState, the markdown rides along
// in Aux for Scorer.Reward.
func (s *Session) fetch(ctx context.Context, rawURL string) (*PageState, mcts.Aux, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "building request for %s", rawURL)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.cfg.Client.Do(req)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "fetching %s", rawURL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading body of %s", rawURL)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "parsing HTML of %s", rawURL)
	}

	markdown, err := s.converter.ConvertBytes(body)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "converting %s to markdown", rawURL)
	}

	page := &PageState{
		URL:   rawURL,
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Doc:   doc,
	}
	aux := mcts.Aux{
		"status_code": resp.StatusCode,
		"markdown":    string(markdown),
		"session_id":  s.ID.String(),
	}
	return page, aux, nil
}
