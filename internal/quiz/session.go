package quiz

import (
	"errors"
	"fmt"
	"slices"

	"lovereel/internal/model"
)

// State 测验会话状态
type State string

const (
	StateAnswering State = "answering"
	StateSubmitted State = "submitted"
)

var (
	ErrSubmitted     = errors.New("quiz already submitted")
	ErrNotSubmitted  = errors.New("quiz not submitted")
	ErrSceneRange    = errors.New("scene index out of range")
	ErrUnknownOption = errors.New("option is not one of the scene's options")
)

// Session 单个收件人的测验进度。只存在于进程内，不持久化；同一会话不会被并发修改。
type Session struct {
	state   State
	answers []string
	given   []bool
	correct []int
	known   []bool
}

// NewSession returns a fresh session in the Answering state for a story
// with sceneCount scenes.
func NewSession(sceneCount int) *Session {
	s := &Session{}
	s.init(sceneCount)
	return s
}

func (s *Session) init(n int) {
	s.state = StateAnswering
	s.answers = make([]string, n)
	s.given = make([]bool, n)
	s.correct = make([]int, n)
	s.known = make([]bool, n)
}

func (s *Session) State() State { return s.state }

// Record stores the option text chosen for scene index i. Re-recording an
// index overwrites the previous choice.
func (s *Session) Record(content *model.Content, i int, option string) error {
	if s.state != StateAnswering {
		return ErrSubmitted
	}
	if i < 0 || i >= len(s.answers) || i >= len(content.Scenes) {
		return fmt.Errorf("%w: %d", ErrSceneRange, i)
	}
	if !slices.Contains(content.Scenes[i].Quiz.Options, option) {
		return fmt.Errorf("scene %d: %w", i+1, ErrUnknownOption)
	}
	s.observe(content, i)
	s.answers[i] = option
	s.given[i] = true
	return nil
}

// Observe fills the correct answer for scene i the first time the scene is
// shown. Later calls leave it untouched.
func (s *Session) Observe(content *model.Content, i int) {
	if i < 0 || i >= len(s.known) || i >= len(content.Scenes) {
		return
	}
	s.observe(content, i)
}

func (s *Session) observe(content *model.Content, i int) {
	if s.known[i] {
		return
	}
	s.correct[i] = content.Scenes[i].Quiz.CorrectIndex
	s.known[i] = true
}

// Submit moves the session to Submitted. It fires once; a second call
// returns ErrSubmitted.
func (s *Session) Submit(content *model.Content) error {
	if s.state != StateAnswering {
		return ErrSubmitted
	}
	for i := range s.known {
		s.Observe(content, i)
	}
	s.state = StateSubmitted
	return nil
}

// Reset discards all progress and returns the session to Answering.
func (s *Session) Reset() {
	s.init(len(s.answers))
}

// UserAnswers returns the chosen option per scene index; unanswered scenes
// are empty strings.
func (s *Session) UserAnswers() []string { return slices.Clone(s.answers) }

// CorrectAnswers returns the correct option index per scene, -1 where the
// scene has not been observed yet.
func (s *Session) CorrectAnswers() []int {
	out := make([]int, len(s.correct))
	for i := range s.correct {
		if s.known[i] {
			out[i] = s.correct[i]
		} else {
			out[i] = -1
		}
	}
	return out
}

// Answered reports whether scene index i has a recorded choice.
func (s *Session) Answered(i int) bool {
	return i >= 0 && i < len(s.given) && s.given[i]
}

// SceneCount is the number of scenes the session tracks.
func (s *Session) SceneCount() int { return len(s.answers) }
