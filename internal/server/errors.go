package server

import (
	"errors"

	"github.com/gin-gonic/gin"

	"lovereel/internal/apierr"
)

const (
	msgStoryNotFound    = "Story not found! Please check the link and try again."
	msgStoryUnavailable = "We're having trouble accessing this story. Please try again later."
	msgGeneratorDown    = "We couldn't reach the story generator. Please try again in a moment."
	msgRateLimited      = "The story generator is busy. Please try again in a moment."
	msgBadGeneration    = "The story generator returned an unusable story. Please try again."
	msgInternal         = "Oops! Something went wrong. Please try again in a moment."
)

// writeError 把错误映射为 HTTP 状态和面向用户的提示，不暴露内部细节。
// unavailable 是连接失败时使用的提示，因路由而异。
func writeError(c *gin.Context, err error, unavailable string) {
	kind := apierr.KindOf(err)
	msg := msgInternal
	switch kind {
	case apierr.KindInputValidation:
		msg = detail(err)
	case apierr.KindNotFound:
		msg = msgStoryNotFound
	case apierr.KindRateLimited:
		msg = msgRateLimited
	case apierr.KindMalformedResponse, apierr.KindSchemaViolation:
		msg = msgBadGeneration
	case apierr.KindConnectionFailure, apierr.KindTransientResource:
		msg = unavailable
	}
	c.AbortWithStatusJSON(apierr.HTTPStatus(kind), gin.H{
		"error":      msg,
		"code":       kind.String(),
		"request_id": c.GetString("request_id"),
	})
}

func detail(err error) string {
	var e *apierr.Error
	if errors.As(err, &e) && e.Err != nil {
		return e.Err.Error()
	}
	return err.Error()
}
