package poster

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"lovereel/internal/apierr"
	"lovereel/internal/volc"
)

const (
	posterWidth  = 1024
	posterHeight = 1792
	renderOp     = "render poster"
)

// 1x1 PNG used only if the fallback encoder itself fails.
const lastResortPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR4nGNgYAAAAAMAASsJTYQAAAAASUVORK5CYII="

// ImageSource 外部图片生成服务
type ImageSource interface {
	GenerateImages(ctx context.Context, p volc.ImageGenParams) ([]string, error)
	Download(ctx context.Context, url string) ([]byte, error)
}

// Poster 渲染结果。Path 为空表示写盘失败，此时只能使用 Data。
type Poster struct {
	Path     string
	FileName string
	Data     []byte
	Fallback bool
}

// DataURI returns the poster inline, for callers that cannot serve Path.
func (p Poster) DataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(p.Data)
}

type Service struct {
	images ImageSource
	model  string
	dir    string
	log    logrus.FieldLogger
}

func NewService(images ImageSource, imageModel, dir string, log logrus.FieldLogger) (*Service, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create poster dir: %w", err)
	}
	return &Service{images: images, model: imageModel, dir: dir, log: log.WithField("component", "poster")}, nil
}

func (s *Service) Dir() string { return s.dir }

// Render 生成成绩海报。外部生成失败时退回本地渲染，从不返回错误。
func (s *Service) Render(ctx context.Context, score, total int, title string) Poster {
	data, err := s.generate(ctx, score, total)
	fallback := false
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"kind":        apierr.KindOf(err).String(),
			"score":       score,
			"total":       total,
			"title_bytes": len(title),
			"error":       err,
		}).Warn("poster generation failed, using fallback renderer")
		data = RenderFallback(score, total, title)
		fallback = true
	}

	p := Poster{Data: data, Fallback: fallback}
	name := fmt.Sprintf("poster_%d_%s.png", score, uuid.NewString())
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.log.WithFields(logrus.Fields{"file": name, "error": err}).Warn("poster write failed")
		return p
	}
	p.Path = path
	p.FileName = name
	return p
}

func (s *Service) generate(ctx context.Context, score, total int) ([]byte, error) {
	if s.images == nil {
		return nil, apierr.New(apierr.KindTransientResource, renderOp, errors.New("no image source configured"))
	}
	urls, err := s.images.GenerateImages(ctx, volc.ImageGenParams{
		Model:  s.model,
		Prompt: posterPrompt(score, total),
		Size:   "1024x1792",
	})
	if err != nil {
		return nil, apierr.New(apierr.KindTransientResource, renderOp, err)
	}
	if len(urls) == 0 {
		return nil, apierr.New(apierr.KindTransientResource, renderOp, errors.New("no images returned"))
	}
	data, err := s.images.Download(ctx, urls[0])
	if err != nil {
		return nil, apierr.New(apierr.KindTransientResource, renderOp, fmt.Errorf("download: %w", err))
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, apierr.New(apierr.KindTransientResource, renderOp, fmt.Errorf("decode: %w", err))
	}
	return data, nil
}

func posterPrompt(score, total int) string {
	return fmt.Sprintf(`Create a romantic comedy movie poster with these elements:
- Style: romantic comedy with vintage elements
- Visual theme: whimsical romance and playful humor
- Color scheme: warm pastels with gold accents
- Required elements: visual symbols of love (hearts, roses) and comedy (playful moments between a couple)
- Quality rating: represent %d out of %d through visual star elements

IMPORTANT: the image must not contain any text, words, letters, numbers or written elements of any kind.`, score, total)
}

// RenderFallback 本地渲染的占位海报：深色背景上的标题和分数
func RenderFallback(score, total int, title string) []byte {
	dc := gg.NewContext(posterWidth, posterHeight)
	dc.SetColor(color.RGBA{R: 20, G: 20, B: 20, A: 255})
	dc.Clear()

	margin := 100.0
	dc.SetFontFace(loadFace(gobold.TTF, 88))
	dc.SetColor(color.White)
	dc.DrawStringWrapped(title, margin, 200, 0, 0, posterWidth-2*margin, 1.3, gg.AlignLeft)

	dc.SetFontFace(loadFace(goregular.TTF, 72))
	dc.SetColor(color.RGBA{R: 255, G: 255, B: 0, A: 255})
	dc.DrawString(fmt.Sprintf("Score: %d/%d", score, total), margin, posterHeight-300)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		b, _ := base64.StdEncoding.DecodeString(lastResortPNG)
		return b
	}
	return buf.Bytes()
}

func loadFace(ttf []byte, size float64) font.Face {
	parsed, err := truetype.Parse(ttf)
	if err != nil {
		return basicfont.Face7x13
	}
	return truetype.NewFace(parsed, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}
