package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"lovereel/internal/model"
)

const cacheKeyPrefix = "lovereel:story:"

// Cached 在 Gateway 之前加一层 redis 读缓存。故事写入后不可变，所以缓存无需失效。
// Redis failures are logged and fall through to the backing gateway.
type Cached struct {
	next Gateway
	rdb  *goredis.Client
	ttl  time.Duration
	log  logrus.FieldLogger
}

func NewCached(next Gateway, rdb *goredis.Client, ttl time.Duration, log logrus.FieldLogger) *Cached {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Cached{next: next, rdb: rdb, ttl: ttl, log: log.WithField("component", "story_cache")}
}

// DialRedis connects and pings the server.
func DialRedis(ctx context.Context, addr string) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func (c *Cached) Put(ctx context.Context, req model.CreationRequest, content model.Content) (string, error) {
	id, err := c.next.Put(ctx, req, content)
	if err != nil {
		return "", err
	}
	if story, found, err := c.next.Get(ctx, id); err == nil && found {
		c.store(ctx, story)
	}
	return id, nil
}

func (c *Cached) Get(ctx context.Context, id string) (*model.StoredStory, bool, error) {
	if c.rdb != nil {
		raw, err := c.rdb.Get(ctx, cacheKeyPrefix+id).Bytes()
		switch {
		case err == nil:
			var story model.StoredStory
			if jerr := json.Unmarshal(raw, &story); jerr == nil {
				return &story, true, nil
			}
			c.log.WithField("story_id", id).Warn("discarding undecodable cache entry")
		case !errors.Is(err, goredis.Nil):
			c.log.WithFields(logrus.Fields{"story_id": id, "error": err}).Warn("story cache read failed")
		}
	}
	story, found, err := c.next.Get(ctx, id)
	if err != nil || !found {
		return story, found, err
	}
	c.store(ctx, story)
	return story, true, nil
}

func (c *Cached) store(ctx context.Context, story *model.StoredStory) {
	if c.rdb == nil {
		return
	}
	b, err := json.Marshal(story)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKeyPrefix+story.ID, b, c.ttl).Err(); err != nil {
		c.log.WithFields(logrus.Fields{"story_id": story.ID, "error": err}).Warn("story cache write failed")
	}
}

var _ Gateway = (*Cached)(nil)
