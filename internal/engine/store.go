package engine

// ScoreStore persists the high score between sessions.
//
// Get returns 0 and a nil error when nothing has been stored yet. Set is
// only called when a new maximum is reached and should return quickly;
// slow stores belong behind an asynchronous writer.
type ScoreStore interface {
	Get() (int, error)
	Set(score int) error
}
