package server

import (
	"context"
	"io"
	"net/http"
	"strconv"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"lovereel/internal/agent"
	"lovereel/internal/apierr"
	"lovereel/internal/model"
	"lovereel/internal/poster"
	"lovereel/internal/service"
)

// StoryCreator 创建者流程
type StoryCreator interface {
	Create(ctx context.Context, req model.CreationRequest) (*service.Created, error)
}

// QuizRunner 收件人流程
type QuizRunner interface {
	Execute(ctx context.Context, sessionID, storyID string, req agent.Request) (*agent.Response, error)
	Info() map[string]interface{}
}

// Deps 路由依赖
type Deps struct {
	Stories    StoryCreator
	Quiz       QuizRunner
	StoryTool  einotool.InvokableTool
	PosterTool einotool.InvokableTool
	PosterDir  string
	Log        logrus.FieldLogger
}

// PosterURL 海报访问地址：写盘成功时走 /posters，否则内联
func PosterURL(p poster.Poster) string {
	if p.FileName != "" {
		return "/posters/" + p.FileName
	}
	return p.DataURI()
}

// NewRouter 初始化Gin路由
func NewRouter(d Deps) *gin.Engine {
	log := d.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("component", "http")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("lovereel"))
	router.Use(AttachRequestID())
	router.Use(RequestLogger(log))

	h := &handlers{deps: d}

	router.GET("/", h.home)
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := router.Group("/api/stories")
	api.POST("", h.createStory)
	api.GET("/:id", h.quizAction(agent.ActionView))
	api.PUT("/:id/answers/:scene", h.answer)
	api.POST("/:id/submit", h.quizAction(agent.ActionSubmit))
	api.POST("/:id/reset", h.quizAction(agent.ActionReset))

	router.GET("/agent/quiz/info", h.agentInfo)
	router.POST("/tools/story-generate", h.runTool(d.StoryTool))
	router.POST("/tools/poster-generate", h.runTool(d.PosterTool))

	if d.PosterDir != "" {
		router.Static("/posters", d.PosterDir)
	}
	return router
}

type handlers struct {
	deps Deps
}

// home 带 story_id 时进入收件人流程，否则返回创建说明
func (h *handlers) home(c *gin.Context) {
	storyID := c.Query("story_id")
	if storyID == "" {
		c.JSON(http.StatusOK, gin.H{
			"name":    "LoveReel",
			"message": "Create your ❤️ story quiz",
			"create":  "POST /api/stories",
		})
		return
	}
	h.execute(c, storyID, agent.Request{Action: agent.ActionView})
}

func (h *handlers) createStory(c *gin.Context) {
	var req model.CreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apierr.New(apierr.KindInputValidation, "create story", err), msgGeneratorDown)
		return
	}
	created, err := h.deps.Stories.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, msgGeneratorDown)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) quizAction(action agent.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.execute(c, c.Param("id"), agent.Request{Action: action})
	}
}

func (h *handlers) answer(c *gin.Context) {
	scene, err := strconv.Atoi(c.Param("scene"))
	if err != nil {
		writeError(c, apierr.Errorf(apierr.KindInputValidation, "answer", "scene must be a number, got %q", c.Param("scene")), msgStoryUnavailable)
		return
	}
	var body struct {
		Option string `json:"option" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, apierr.Errorf(apierr.KindInputValidation, "answer", "option required"), msgStoryUnavailable)
		return
	}
	h.execute(c, c.Param("id"), agent.Request{Action: agent.ActionAnswer, Scene: scene, Option: body.Option})
}

func (h *handlers) execute(c *gin.Context, storyID string, req agent.Request) {
	resp, err := h.deps.Quiz.Execute(c.Request.Context(), sessionID(c), storyID, req)
	if err != nil {
		writeError(c, err, msgStoryUnavailable)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// agentInfo 处理agent信息请求
func (h *handlers) agentInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Quiz.Info())
}

// runTool 直接读取请求体作为工具的JSON参数
func (h *handlers) runTool(t einotool.InvokableTool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if t == nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			writeError(c, apierr.New(apierr.KindInputValidation, "tool", err), msgGeneratorDown)
			return
		}
		result, err := t.InvokableRun(c.Request.Context(), string(body))
		if err != nil {
			writeError(c, err, msgGeneratorDown)
			return
		}
		c.Data(http.StatusOK, "application/json", []byte(result))
	}
}
