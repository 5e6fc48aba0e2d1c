package config

// Grid. The board is a fixed square of TileCount x TileCount cells; the
// snake starts in the center cell.
const TileCount = 20

// Speed levels, in ticks per second.
const (
	SpeedNovice = 5
	SpeedNormal = 7
	SpeedExpert = 10
)

// Speed progression.
const (
	MaxSpeedBonus      = 3 // Ticks/sec added on top of the level's base rate, at most
	PointsPerSpeedBump = 5
)

// Food placement. Random sampling gives up after this many hits on the
// snake and falls back to enumerating free cells.
const FoodRandomAttempts = 64

// Persistence
const (
	HighScoreKey     = "snakeHighScore"
	DefaultScoreFile = "snake-scores.json"
)
