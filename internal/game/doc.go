// Package game implements the state machine of a memory-matching
// (concentration) card game.
//
// The main type is GameState. It owns an even number of cards, two per
// symbol, and moves them between three states:
//
//	Normal -> Flipped -> Matched   (pair found, terminal until restart)
//	                  -> Normal    (pair mismatched)
//
// # Basic Usage
//
//	g := game.NewGameState(nil)
//	if err := g.Deal([]string{"A", "B"}, randutil.New(42)); err != nil {
//	    return err
//	}
//	g.SelectCard(0)
//	if res := g.SelectCard(2); res.Kind == game.SelectPendingResolution {
//	    // show both cards, then:
//	    out := g.Resolve()
//	    if out.GameOver { ... }
//	}
//
// After the second flip the game is locked in AwaitingResolution and every
// SelectCard is ignored until the caller invokes Resolve exactly once. How
// long the cards stay visible before that call is up to the presenter.
//
// # Events
//
// Every transition is published on the optional EventBus with a copy of
// the board. RenderFunc and OnGameOver adapt plain callbacks into
// subscribers.
package game
