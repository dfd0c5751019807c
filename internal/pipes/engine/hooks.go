package engine

// Hooks receives session events. Methods run on the executor goroutine and
// must not call back into the Engine.
type Hooks interface {
	OnMove()
	OnWin()
	OnLose()
}

// HookFuncs adapts plain functions to Hooks. Nil fields are ignored.
type HookFuncs struct {
	Move func()
	Win  func()
	Lose func()
}

func (h HookFuncs) OnMove() {
	if h.Move != nil {
		h.Move()
	}
}

func (h HookFuncs) OnWin() {
	if h.Win != nil {
		h.Win()
	}
}

func (h HookFuncs) OnLose() {
	if h.Lose != nil {
		h.Lose()
	}
}
