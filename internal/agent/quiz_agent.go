package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"lovereel/internal/apierr"
	"lovereel/internal/model"
	"lovereel/internal/poster"
	"lovereel/internal/quiz"
)

const (
	Tagline = "A Romantic Comedy About Your ❤️ Story"

	DefaultSessionTTL = time.Hour
)

// Action 收件人在测验中的操作
type Action string

const (
	ActionView   Action = "view"
	ActionAnswer Action = "answer"
	ActionSubmit Action = "submit"
	ActionReset  Action = "reset"
)

// Request 单次操作。Scene 从 1 开始，仅 answer 使用。
type Request struct {
	Action Action `json:"action"`
	Scene  int    `json:"scene,omitempty"`
	Option string `json:"option,omitempty"`
}

// StoryLoader 按 id 读取故事，不存在时返回 NotFound
type StoryLoader interface {
	Load(ctx context.Context, id string) (*model.StoredStory, error)
}

// PosterRenderer 渲染成绩海报，不返回错误
type PosterRenderer interface {
	Render(ctx context.Context, score, total int, title string) poster.Poster
}

// QuizView 不包含正确答案
type QuizView struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type SceneView struct {
	Number     int      `json:"number"`
	Content    string   `json:"content"`
	Quiz       QuizView `json:"quiz"`
	Commentary string   `json:"commentary"`
	Answer     string   `json:"answer,omitempty"`
}

// StoryView 收件人看到的故事
type StoryView struct {
	StoryID string      `json:"story_id"`
	Title   string      `json:"title"`
	Tagline string      `json:"tagline"`
	Scenes  []SceneView `json:"scenes"`
}

// ResultView 提交后的成绩、花絮和海报
type ResultView struct {
	Score          int      `json:"score"`
	Total          int      `json:"total"`
	Bloopers       []string `json:"bloopers,omitempty"`
	PosterURL      string   `json:"poster_url"`
	PosterFallback bool     `json:"poster_fallback"`
}

// Response 操作结果
type Response struct {
	SessionID string      `json:"session_id"`
	State     quiz.State  `json:"state"`
	Story     *StoryView  `json:"story,omitempty"`
	Result    *ResultView `json:"result,omitempty"`
}

type sessionEntry struct {
	mu       sync.Mutex
	session  *quiz.Session
	result   *ResultView
	lastSeen time.Time
}

// QuizAgent 收件人测验助手，按会话管理测验进度
type QuizAgent struct {
	stories   StoryLoader
	posters   PosterRenderer
	posterURL func(poster.Poster) string
	ttl       time.Duration
	now       func() time.Time
	log       logrus.FieldLogger

	sessions  map[string]*sessionEntry // key: sessionID/storyID
	sessionMu sync.RWMutex
}

// NewQuizAgent 创建测验助手。posterURL 把写盘的海报映射为可访问的地址。
func NewQuizAgent(stories StoryLoader, posters PosterRenderer, posterURL func(poster.Poster) string, ttl time.Duration, log logrus.FieldLogger) *QuizAgent {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if posterURL == nil {
		posterURL = func(p poster.Poster) string { return p.DataURI() }
	}
	return &QuizAgent{
		stories:   stories,
		posters:   posters,
		posterURL: posterURL,
		ttl:       ttl,
		now:       time.Now,
		log:       log.WithField("component", "quiz_agent"),
		sessions:  make(map[string]*sessionEntry),
	}
}

// Execute 执行一次收件人操作
func (a *QuizAgent) Execute(ctx context.Context, sessionID, storyID string, req Request) (*Response, error) {
	story, err := a.stories.Load(ctx, storyID)
	if err != nil {
		return nil, err
	}
	content := &story.Content

	entry := a.entry(sessionID, storyID, len(content.Scenes))
	entry.mu.Lock()
	defer entry.mu.Unlock()

	s := entry.session
	switch req.Action {
	case ActionView, "":
	case ActionAnswer:
		if err := s.Record(content, req.Scene-1, req.Option); err != nil {
			return nil, a.rejected(sessionID, storyID, req, err)
		}
	case ActionSubmit:
		if s.State() == quiz.StateSubmitted {
			// repeat submits replay the first result
			break
		}
		if err := s.Submit(content); err != nil {
			return nil, a.rejected(sessionID, storyID, req, err)
		}
		res, err := s.Result(content)
		if err != nil {
			return nil, apierr.New(apierr.KindUnknown, "submit quiz", err)
		}
		entry.result = a.present(ctx, res, content.Title)
		a.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"story_id":   storyID,
			"score":      res.Score,
			"total":      res.Total,
		}).Info("quiz submitted")
	case ActionReset:
		s.Reset()
		entry.result = nil
	default:
		return nil, apierr.Errorf(apierr.KindInputValidation, "quiz action", "unknown action %q", req.Action)
	}

	resp := &Response{
		SessionID: sessionID,
		State:     s.State(),
		Story:     a.view(story, s),
	}
	if s.State() == quiz.StateSubmitted {
		resp.Result = entry.result
	}
	return resp, nil
}

func (a *QuizAgent) entry(sessionID, storyID string, scenes int) *sessionEntry {
	key := sessionID + "/" + storyID
	now := a.now()

	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()
	a.evictLocked(now)

	e, ok := a.sessions[key]
	if !ok {
		e = &sessionEntry{session: quiz.NewSession(scenes)}
		a.sessions[key] = e
	}
	e.lastSeen = now
	return e
}

func (a *QuizAgent) evictLocked(now time.Time) {
	for key, e := range a.sessions {
		if now.Sub(e.lastSeen) > a.ttl {
			delete(a.sessions, key)
		}
	}
}

// SessionCount 当前保存的会话数
func (a *QuizAgent) SessionCount() int {
	a.sessionMu.RLock()
	defer a.sessionMu.RUnlock()
	return len(a.sessions)
}

func (a *QuizAgent) view(story *model.StoredStory, s *quiz.Session) *StoryView {
	content := &story.Content
	answers := s.UserAnswers()
	out := &StoryView{
		StoryID: story.ID,
		Title:   content.Title,
		Tagline: Tagline,
		Scenes:  make([]SceneView, 0, len(content.Scenes)),
	}
	for i, scene := range content.Scenes {
		s.Observe(content, i)
		sv := SceneView{
			Number:     i + 1,
			Content:    scene.Content,
			Quiz:       QuizView{Question: scene.Quiz.Question, Options: scene.Quiz.Options},
			Commentary: scene.Commentary,
		}
		if s.Answered(i) {
			sv.Answer = answers[i]
		}
		out.Scenes = append(out.Scenes, sv)
	}
	return out
}

func (a *QuizAgent) present(ctx context.Context, res quiz.Result, title string) *ResultView {
	out := &ResultView{Score: res.Score, Total: res.Total}
	if !res.Perfect() {
		out.Bloopers = make([]string, 0, len(res.Bloopers))
		for _, b := range res.Bloopers {
			out.Bloopers = append(out.Bloopers, fmt.Sprintf("Scene %d: %s", b.SceneIndex+1, b.Text))
		}
	}
	if a.posters != nil {
		p := a.posters.Render(ctx, res.Score, res.Total, title)
		out.PosterURL = a.posterURL(p)
		out.PosterFallback = p.Fallback
	}
	return out
}

func (a *QuizAgent) rejected(sessionID, storyID string, req Request, err error) error {
	a.log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"story_id":   storyID,
		"action":     req.Action,
		"scene":      req.Scene,
		"error":      err,
	}).Warn("quiz action rejected")
	switch {
	case errors.Is(err, quiz.ErrSubmitted), errors.Is(err, quiz.ErrSceneRange), errors.Is(err, quiz.ErrUnknownOption):
		return apierr.New(apierr.KindInputValidation, "quiz "+string(req.Action), err)
	}
	return apierr.New(apierr.KindUnknown, "quiz "+string(req.Action), err)
}

// Info 获取agent信息
func (a *QuizAgent) Info() map[string]interface{} {
	return map[string]interface{}{
		"name":        "quiz_agent",
		"description": "收件人测验助手：展示故事场景，记录答案，提交后计算得分、花絮和海报。",
		"states": []string{
			string(quiz.StateAnswering),
			string(quiz.StateSubmitted),
		},
		"actions": []string{
			string(ActionView),
			string(ActionAnswer),
			string(ActionSubmit),
			string(ActionReset),
		},
		"session_ttl": a.ttl.String(),
	}
}
