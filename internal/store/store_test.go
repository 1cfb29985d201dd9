package store

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"lovereel/internal/testutil"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newSQLiteStore(t *testing.T) *GormStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormLogger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	s, err := NewGormStore(db, quietLogger())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func gateways(t *testing.T) map[string]Gateway {
	return map[string]Gateway{
		"memory": NewMemoryStore(),
		"gorm":   newSQLiteStore(t),
		"cached": NewCached(NewMemoryStore(), nil, 0, quietLogger()),
	}
}

func TestGatewayRoundTrip(t *testing.T) {
	for name, gw := range gateways(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			req := testutil.SampleRequest()
			content := *testutil.SampleContent(2)

			id, err := gw.Put(ctx, req, content)
			if err != nil {
				t.Fatalf("put: %v", err)
			}
			if !ValidID(id) {
				t.Fatalf("expected 24 hex id, got %q", id)
			}

			story, found, err := gw.Get(ctx, id)
			if err != nil || !found {
				t.Fatalf("get: found=%v err=%v", found, err)
			}
			if story.ID != id {
				t.Fatalf("expected id %s, got %s", id, story.ID)
			}
			if !reflect.DeepEqual(story.Content, content) {
				t.Fatalf("content changed in storage:\n got %+v\nwant %+v", story.Content, content)
			}
			if !reflect.DeepEqual(story.Request, req) {
				t.Fatalf("request changed in storage")
			}
			if story.AccessKey == "" {
				t.Fatalf("expected access key")
			}
		})
	}
}

func TestGatewayGetAbsent(t *testing.T) {
	for name, gw := range gateways(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"nonexistent-id", NewID(), ""} {
				story, found, err := gw.Get(context.Background(), id)
				if err != nil {
					t.Fatalf("absent id %q must not error, got %v", id, err)
				}
				if found || story != nil {
					t.Fatalf("expected absent for %q", id)
				}
			}
		})
	}
}

func TestPutAssignsDistinctIDsAndKeys(t *testing.T) {
	gw := NewMemoryStore()
	ids := map[string]bool{}
	keys := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := gw.Put(context.Background(), testutil.SampleRequest(), *testutil.SampleContent(1))
		if err != nil {
			t.Fatalf("put: %v", err)
		}
		story, _, _ := gw.Get(context.Background(), id)
		if ids[id] || keys[story.AccessKey] {
			t.Fatalf("duplicate id or access key on iteration %d", i)
		}
		ids[id] = true
		keys[story.AccessKey] = true
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	gw := NewMemoryStore()
	id, _ := gw.Put(context.Background(), testutil.SampleRequest(), *testutil.SampleContent(1))

	first, _, _ := gw.Get(context.Background(), id)
	first.Content.Scenes[0].Quiz.Options[0] = "tampered"

	second, _, _ := gw.Get(context.Background(), id)
	if second.Content.Scenes[0].Quiz.Options[0] == "tampered" {
		t.Fatalf("stored story must not be mutable through a returned value")
	}
}

func TestNewAccessKey(t *testing.T) {
	key, err := NewAccessKey()
	if err != nil {
		t.Fatalf("access key: %v", err)
	}
	raw, err := base64.RawURLEncoding.DecodeString(key)
	if err != nil {
		t.Fatalf("access key must be url-safe base64: %v", err)
	}
	if len(raw) < 16 {
		t.Fatalf("expected at least 16 random bytes, got %d", len(raw))
	}
}

func TestValidID(t *testing.T) {
	if !ValidID(NewID()) {
		t.Fatalf("generated id must be valid")
	}
	for _, id := range []string{"", "abc", "zzzzzzzzzzzzzzzzzzzzzzzz", "nonexistent-id"} {
		if ValidID(id) {
			t.Fatalf("expected %q to be invalid", id)
		}
	}
}

func TestGormErrorsGoThroughLogrus(t *testing.T) {
	logger, hook := test.NewNullLogger()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: newGormLogger(logger)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	var n int
	if err := db.Raw("SELECT count(*) FROM missing_table").Scan(&n).Error; err == nil {
		t.Fatalf("expected query on a missing table to fail")
	}

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatalf("expected gorm error to be logged through logrus")
	}
	if entry.Level != logrus.WarnLevel || entry.Data["component"] != "gorm" {
		t.Fatalf("unexpected entry level=%s data=%v", entry.Level, entry.Data)
	}
	if !strings.Contains(entry.Message, "missing_table") || strings.Contains(entry.Message, "\n") {
		t.Fatalf("expected single-line message naming the query, got %q", entry.Message)
	}
}
