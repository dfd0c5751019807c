package core

// RuntimeConfig contains what the platform passes to a game on Reset.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Redraws per second
	Seed     int64 // RNG seed for the pipe queue and generated maps
}

// DefaultConfig returns an 80x24 screen redrawn ten times a second.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 10,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState is what the platform needs to know about a running game.
type GameState struct {
	Level  string
	Moves  int
	Over   bool // won, lost or quit
	Won    bool
	Paused bool
}

// StepResult is returned by Game.Step.
type StepResult struct {
	State GameState
}
