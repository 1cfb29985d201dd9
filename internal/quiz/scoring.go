package quiz

import "lovereel/internal/model"

// NoBlooperAvailable 花絮数量不足时的占位文本
const NoBlooperAvailable = "No blooper available"

// Blooper is the reel entry for one wrongly answered scene.
type Blooper struct {
	SceneIndex int    `json:"scene_index"`
	Text       string `json:"text"`
	Available  bool   `json:"available"`
}

// Result 提交后的成绩
type Result struct {
	Score    int       `json:"score"`
	Total    int       `json:"total"`
	Bloopers []Blooper `json:"bloopers"`
}

func (r Result) Perfect() bool { return r.Score == r.Total }

// correctAt compares the chosen option text with the option at the stored
// correct index.
func correctAt(s *Session, content *model.Content, i int) bool {
	if !s.given[i] || !s.known[i] || i >= len(content.Scenes) {
		return false
	}
	options := content.Scenes[i].Quiz.Options
	idx := s.correct[i]
	if idx < 0 || idx >= len(options) {
		return false
	}
	return s.answers[i] == options[idx]
}

// Score counts the scenes answered with the exact correct option text.
func Score(s *Session, content *model.Content) int {
	score := 0
	for i := range s.answers {
		if correctAt(s, content, i) {
			score++
		}
	}
	return score
}

// SelectBloopers returns one entry per wrongly answered scene, taking the
// blooper at the same position. Scenes beyond the blooper list get
// NoBlooperAvailable.
func SelectBloopers(s *Session, content *model.Content) []Blooper {
	out := make([]Blooper, 0, len(s.answers))
	for i := range s.answers {
		if correctAt(s, content, i) {
			continue
		}
		if i < len(content.Bloopers) {
			out = append(out, Blooper{SceneIndex: i, Text: content.Bloopers[i], Available: true})
		} else {
			out = append(out, Blooper{SceneIndex: i, Text: NoBlooperAvailable})
		}
	}
	return out
}

// Result computes score and bloopers for a submitted session.
func (s *Session) Result(content *model.Content) (Result, error) {
	if s.state != StateSubmitted {
		return Result{}, ErrNotSubmitted
	}
	return Result{
		Score:    Score(s, content),
		Total:    len(s.answers),
		Bloopers: SelectBloopers(s, content),
	}, nil
}
