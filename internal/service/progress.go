package service

import "time"

// Progress is published after each question of a run.
type Progress struct {
	Model      string        `json:"model"`
	QuestionID string        `json:"question_id"`
	Completed  int           `json:"completed"`
	Total      int           `json:"total"`
	Fraction   float64       `json:"fraction"`
	Status     string        `json:"status"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Observer receives progress notifications. OnProgress is called
// synchronously from the run loop and should return quickly.
type Observer interface {
	OnProgress(Progress)
}

// ProgressFunc adapts a plain function to Observer.
type ProgressFunc func(Progress)

func (f ProgressFunc) OnProgress(p Progress) { f(p) }

// ChannelObserver forwards progress to a channel, dropping events when the
// receiver is not keeping up.
type ChannelObserver chan<- Progress

func (c ChannelObserver) OnProgress(p Progress) {
	select {
	case c <- p:
	default:
	}
}

type nopObserver struct{}

func (nopObserver) OnProgress(Progress) {}
