package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"lovereel/internal/apierr"
	"lovereel/internal/generation"
	"lovereel/internal/model"
	"lovereel/internal/prompt"
	"lovereel/internal/store"
)

const (
	createOp = "create story"
	loadOp   = "load story"
)

// Created 创建成功后返回给创建者的内容
type Created struct {
	StoryID string `json:"story_id"`
	Link    string `json:"link"`
}

// StoryService 创建者流程：校验、构造提示词、生成、持久化、生成分享链接
type StoryService struct {
	gen     generation.Generator
	stories store.Gateway
	baseURL string
	log     logrus.FieldLogger
}

func NewStoryService(gen generation.Generator, stories store.Gateway, baseURL string, log logrus.FieldLogger) *StoryService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &StoryService{
		gen:     gen,
		stories: stories,
		baseURL: baseURL,
		log:     log.WithField("component", "story_service"),
	}
}

func (s *StoryService) Create(ctx context.Context, req model.CreationRequest) (*Created, error) {
	ctx, span := otel.Tracer("lovereel/service").Start(ctx, "story.Create")
	defer span.End()

	if err := req.Validate(); err != nil {
		s.log.WithFields(logrus.Fields{
			"memories":    len(req.Memories),
			"personal_qa": len(req.PersonalQA),
			"error":       err,
		}).Warn("creation request rejected")
		return nil, err
	}

	content, err := s.gen.Generate(ctx, prompt.Build(req))
	if err != nil {
		return nil, err
	}

	id, err := s.stories.Put(ctx, req, *content)
	if err != nil {
		s.log.WithFields(logrus.Fields{"scenes": len(content.Scenes), "error": err}).Error("story persist failed")
		return nil, apierr.New(apierr.KindConnectionFailure, createOp, err)
	}
	span.SetAttributes(attribute.String("story.id", id))
	s.log.WithFields(logrus.Fields{
		"story_id": id,
		"scenes":   len(content.Scenes),
		"bloopers": len(content.Bloopers),
	}).Info("story created")

	return &Created{StoryID: id, Link: ShareLink(s.baseURL, id)}, nil
}

// Load returns the stored story; an absent id is a NotFound error.
func (s *StoryService) Load(ctx context.Context, id string) (*model.StoredStory, error) {
	ctx, span := otel.Tracer("lovereel/service").Start(ctx, "story.Load")
	defer span.End()
	span.SetAttributes(attribute.String("story.id", id))

	story, found, err := s.stories.Get(ctx, id)
	if err != nil {
		s.log.WithFields(logrus.Fields{"story_id": id, "error": err}).Error("story lookup failed")
		return nil, apierr.New(apierr.KindConnectionFailure, loadOp, err)
	}
	if !found {
		return nil, apierr.Errorf(apierr.KindNotFound, loadOp, "story %q not found", id)
	}
	return story, nil
}

// ShareLink 分享链接：{base_url}/?story_id={id}
func ShareLink(baseURL, id string) string {
	return strings.TrimRight(baseURL, "/") + "/?story_id=" + url.QueryEscape(id)
}
