package store

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"sync/atomic"
	"time"

	"lovereel/internal/model"
)

// Gateway 故事持久化网关。Get 的 found=false 表示记录不存在，不是错误。
type Gateway interface {
	Put(ctx context.Context, req model.CreationRequest, content model.Content) (string, error)
	Get(ctx context.Context, id string) (*model.StoredStory, bool, error)
}

const (
	idBytes        = 12
	accessKeyBytes = 16
)

var idCounter atomic.Uint32

func init() {
	var seed [4]byte
	_, _ = rand.Read(seed[:])
	idCounter.Store(binary.BigEndian.Uint32(seed[:]))
}

// NewID returns a 24 hex character identifier: a 4 byte timestamp, 5 random
// bytes and a 3 byte counter.
func NewID() string {
	var b [idBytes]byte
	binary.BigEndian.PutUint32(b[0:4], uint32(time.Now().Unix()))
	_, _ = rand.Read(b[4:9])
	c := idCounter.Add(1)
	b[9] = byte(c >> 16)
	b[10] = byte(c >> 8)
	b[11] = byte(c)
	return hex.EncodeToString(b[:])
}

// ValidID reports whether id has the shape produced by NewID.
func ValidID(id string) bool {
	if len(id) != idBytes*2 {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}

// NewAccessKey returns an unguessable URL-safe token. It is stored with each
// story and not yet used for authorization.
func NewAccessKey() (string, error) {
	b := make([]byte, accessKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
