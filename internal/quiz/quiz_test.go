package quiz_test

import (
	"errors"
	"testing"

	"lovereel/internal/model"
	"lovereel/internal/quiz"
	"lovereel/internal/testutil"
)

func correctOption(c *model.Content, i int) string { return c.Scenes[i].Quiz.CorrectOption() }

func wrongOption(c *model.Content, i int) string {
	q := c.Scenes[i].Quiz
	return q.Options[(q.CorrectIndex+1)%len(q.Options)]
}

func answerAll(t *testing.T, s *quiz.Session, c *model.Content, pick func(*model.Content, int) string) {
	t.Helper()
	for i := range c.Scenes {
		if err := s.Record(c, i, pick(c, i)); err != nil {
			t.Fatalf("record scene %d: %v", i, err)
		}
	}
}

func TestPerfectScoreHasNoBloopers(t *testing.T) {
	c := testutil.SampleContent(5)
	s := quiz.NewSession(len(c.Scenes))
	answerAll(t, s, c, correctOption)

	if err := s.Submit(c); err != nil {
		t.Fatalf("submit: %v", err)
	}
	res, err := s.Result(c)
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.Score != 5 || res.Total != 5 || !res.Perfect() {
		t.Fatalf("expected 5/5, got %d/%d", res.Score, res.Total)
	}
	if len(res.Bloopers) != 0 {
		t.Fatalf("perfect score must not produce bloopers, got %v", res.Bloopers)
	}
}

func TestAllWrongScoresZero(t *testing.T) {
	c := testutil.SampleContent(5)
	s := quiz.NewSession(len(c.Scenes))
	answerAll(t, s, c, wrongOption)

	if got := quiz.Score(s, c); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	bloopers := quiz.SelectBloopers(s, c)
	if len(bloopers) != 5 {
		t.Fatalf("expected 5 bloopers, got %d", len(bloopers))
	}
	for i, b := range bloopers {
		if b.SceneIndex != i || b.Text != c.Bloopers[i] || !b.Available {
			t.Fatalf("unexpected blooper %d: %+v", i, b)
		}
	}
}

func TestMixedAnswersWithScarceBloopers(t *testing.T) {
	c := testutil.SampleContent(2)
	s := quiz.NewSession(len(c.Scenes))
	// scenes 1, 3 and 5 wrong; 2 and 4 right
	for i := range c.Scenes {
		pick := wrongOption
		if i == 1 || i == 3 {
			pick = correctOption
		}
		if err := s.Record(c, i, pick(c, i)); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if err := s.Submit(c); err != nil {
		t.Fatalf("submit: %v", err)
	}
	res, err := s.Result(c)
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.Score != 2 {
		t.Fatalf("expected score 2, got %d", res.Score)
	}
	want := []quiz.Blooper{
		{SceneIndex: 0, Text: "Blooper 1", Available: true},
		{SceneIndex: 2, Text: quiz.NoBlooperAvailable},
		{SceneIndex: 4, Text: quiz.NoBlooperAvailable},
	}
	if len(res.Bloopers) != len(want) {
		t.Fatalf("expected %d bloopers, got %v", len(want), res.Bloopers)
	}
	for i := range want {
		if res.Bloopers[i] != want[i] {
			t.Fatalf("blooper %d: expected %+v, got %+v", i, want[i], res.Bloopers[i])
		}
	}
}

func TestSelectBloopersNeverFailsWithOneBlooper(t *testing.T) {
	c := testutil.SampleContent(1)
	s := quiz.NewSession(len(c.Scenes))
	answerAll(t, s, c, wrongOption)

	bloopers := quiz.SelectBloopers(s, c)
	if len(bloopers) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(bloopers))
	}
	for _, b := range bloopers[1:] {
		if b.Text != quiz.NoBlooperAvailable || b.Available {
			t.Fatalf("expected sentinel, got %+v", b)
		}
	}
}

func TestRecordIsLastWriteWins(t *testing.T) {
	c := testutil.SampleContent(1)
	s := quiz.NewSession(len(c.Scenes))

	if err := s.Record(c, 2, wrongOption(c, 2)); err != nil {
		t.Fatalf("record: %v", err)
	}
	firstCorrect := s.CorrectAnswers()[2]
	if err := s.Record(c, 2, correctOption(c, 2)); err != nil {
		t.Fatalf("record: %v", err)
	}

	answers := s.UserAnswers()
	if len(answers) != 5 {
		t.Fatalf("recording must not append, got %d answers", len(answers))
	}
	if answers[2] != correctOption(c, 2) {
		t.Fatalf("expected last write to win, got %q", answers[2])
	}
	if s.CorrectAnswers()[2] != firstCorrect {
		t.Fatalf("correct answer must not change between recordings")
	}
}

func TestCorrectAnswerIsNotRecomputed(t *testing.T) {
	c := testutil.SampleContent(1)
	s := quiz.NewSession(len(c.Scenes))
	s.Observe(c, 0)
	first := s.CorrectAnswers()[0]

	changed := *c
	changed.Scenes = append([]model.Scene(nil), c.Scenes...)
	changed.Scenes[0].Quiz.CorrectIndex = (first + 1) % 3
	s.Observe(&changed, 0)

	if s.CorrectAnswers()[0] != first {
		t.Fatalf("correct answer recomputed on second observation")
	}
	if s.CorrectAnswers()[1] != -1 {
		t.Fatalf("unobserved scene must report -1")
	}
}

func TestSubmitFiresOnce(t *testing.T) {
	c := testutil.SampleContent(1)
	s := quiz.NewSession(len(c.Scenes))
	if err := s.Submit(c); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if s.State() != quiz.StateSubmitted {
		t.Fatalf("expected submitted state")
	}
	if err := s.Submit(c); !errors.Is(err, quiz.ErrSubmitted) {
		t.Fatalf("expected ErrSubmitted on second submit, got %v", err)
	}
	if err := s.Record(c, 0, correctOption(c, 0)); !errors.Is(err, quiz.ErrSubmitted) {
		t.Fatalf("recording after submit must fail, got %v", err)
	}
}

func TestUnansweredScenesCountAsWrong(t *testing.T) {
	c := testutil.SampleContent(5)
	s := quiz.NewSession(len(c.Scenes))
	if err := s.Record(c, 0, correctOption(c, 0)); err != nil {
		t.Fatalf("record: %v", err)
	}
	_ = s.Submit(c)
	res, _ := s.Result(c)
	if res.Score != 1 || len(res.Bloopers) != 4 {
		t.Fatalf("expected 1 correct and 4 bloopers, got %+v", res)
	}
	if s.Answered(1) {
		t.Fatalf("scene 2 was never answered")
	}
}

func TestResultRequiresSubmit(t *testing.T) {
	c := testutil.SampleContent(1)
	s := quiz.NewSession(len(c.Scenes))
	if _, err := s.Result(c); !errors.Is(err, quiz.ErrNotSubmitted) {
		t.Fatalf("expected ErrNotSubmitted, got %v", err)
	}
}

func TestResetStartsFresh(t *testing.T) {
	c := testutil.SampleContent(1)
	s := quiz.NewSession(len(c.Scenes))
	answerAll(t, s, c, correctOption)
	_ = s.Submit(c)

	s.Reset()
	if s.State() != quiz.StateAnswering {
		t.Fatalf("expected answering after reset")
	}
	for i, a := range s.UserAnswers() {
		if a != "" || s.Answered(i) {
			t.Fatalf("expected cleared answers after reset")
		}
	}
	if err := s.Record(c, 0, correctOption(c, 0)); err != nil {
		t.Fatalf("record after reset: %v", err)
	}
}

func TestRecordRejectsBadInput(t *testing.T) {
	c := testutil.SampleContent(1)
	s := quiz.NewSession(len(c.Scenes))
	if err := s.Record(c, 5, "A1"); !errors.Is(err, quiz.ErrSceneRange) {
		t.Fatalf("expected ErrSceneRange, got %v", err)
	}
	if err := s.Record(c, -1, "A1"); !errors.Is(err, quiz.ErrSceneRange) {
		t.Fatalf("expected ErrSceneRange, got %v", err)
	}
	if err := s.Record(c, 0, "not an option"); !errors.Is(err, quiz.ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
}

func TestScoreComparesOptionText(t *testing.T) {
	c := testutil.SampleContent(1)
	c.Scenes[0].Quiz.Options = []string{"same", "same", "other"}
	c.Scenes[0].Quiz.CorrectIndex = 1
	s := quiz.NewSession(len(c.Scenes))
	if err := s.Record(c, 0, "same"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if quiz.Score(s, c) != 1 {
		t.Fatalf("matching option text must score regardless of position")
	}
}
