package tools

import (
	"context"
	"encoding/json"
	"strings"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"lovereel/internal/apierr"
	"lovereel/internal/poster"
)

type PosterRenderer interface {
	Render(ctx context.Context, score, total int, title string) poster.Poster
}

type PosterTool struct {
	posters PosterRenderer
	url     func(poster.Poster) string
}

type PosterToolArgs struct {
	Score int    `json:"score"`
	Total int    `json:"total"`
	Title string `json:"title"`
}

type PosterToolResp struct {
	PosterURL string `json:"poster_url"`
	Fallback  bool   `json:"fallback"`
}

func NewPosterTool(posters PosterRenderer, url func(poster.Poster) string) *PosterTool {
	if url == nil {
		url = func(p poster.Poster) string { return p.DataURI() }
	}
	return &PosterTool{posters: posters, url: url}
}

func (t *PosterTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	params := map[string]*schema.ParameterInfo{
		"score": {Type: schema.Integer, Required: true, Desc: "答对的场景数"},
		"total": {Type: schema.Integer, Required: true, Desc: "场景总数"},
		"title": {Type: schema.String, Required: true, Desc: "故事标题，用于本地渲染的占位海报"},
	}
	return &schema.ToolInfo{
		Name:        "poster_generate",
		Desc:        "生成测验成绩海报，外部生成失败时使用本地渲染",
		ParamsOneOf: schema.NewParamsOneOfByParams(params),
	}, nil
}

func (t *PosterTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...einotool.Option) (string, error) {
	var args PosterToolArgs
	if err := json.Unmarshal([]byte(argumentsInJSON), &args); err != nil {
		return "", apierr.New(apierr.KindInputValidation, "poster_generate", err)
	}
	if args.Total <= 0 || args.Score < 0 || args.Score > args.Total {
		return "", apierr.Errorf(apierr.KindInputValidation, "poster_generate", "score %d out of range for total %d", args.Score, args.Total)
	}
	if strings.TrimSpace(args.Title) == "" {
		return "", apierr.Errorf(apierr.KindInputValidation, "poster_generate", "title required")
	}

	p := t.posters.Render(ctx, args.Score, args.Total, args.Title)
	b, err := json.Marshal(PosterToolResp{PosterURL: t.url(p), Fallback: p.Fallback})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var _ einotool.InvokableTool = (*PosterTool)(nil)
