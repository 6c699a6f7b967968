package webworld

import (
	"strings"

	"github.com/quietloop/mctsagent/internal/mcts"
)

// RetrieveAnswer is the mcts.RetrieveAnswer for this world: a terminal page's
// answer is the trimmed text of the element matching cfg.AnswerSelector, or
// nil if the page has none (a non-terminal or unmarked dead end).
func RetrieveAnswer(cfg Config) mcts.RetrieveAnswer {
	return func(state mcts.State) any {
		page, ok := state.(*PageState)
		if !ok {
			return nil
		}
		sel := page.Doc.Find(cfg.AnswerSelector).First()
		if sel.Length() == 0 {
			return nil
		}
		answer := strings.TrimSpace(sel.Text())
		if answer == "" {
			return nil
		}
		return answer
	}
}
