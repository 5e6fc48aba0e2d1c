package engine

import (
	"errors"

	"github.com/Lam1900/Snakegame/internal/config"
)

// ErrGridFull means every cell is covered by the snake.
var ErrGridFull = errors.New("engine: no free cell for food")

// placeFood puts food on a uniformly chosen free cell. Random sampling is
// cheap while the board is mostly empty; after FoodRandomAttempts misses
// the free cells are enumerated instead, so placement always terminates.
func (e *Engine) placeFood() error {
	free := len(e.occupied)
	for _, n := range e.occupied {
		if n > 0 {
			free--
		}
	}
	if free <= 0 {
		return ErrGridFull
	}

	for range config.FoodRandomAttempts {
		c := Cell{X: e.rng.Intn(e.tileCount), Y: e.rng.Intn(e.tileCount)}
		if !e.occupiedAt(c) {
			e.food = c
			e.hasFood = true
			return nil
		}
	}

	k := e.rng.Intn(free)
	for i, n := range e.occupied {
		if n > 0 {
			continue
		}
		if k == 0 {
			e.food = Cell{X: i % e.tileCount, Y: i / e.tileCount}
			e.hasFood = true
			return nil
		}
		k--
	}
	return ErrGridFull
}
