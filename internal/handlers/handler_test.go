// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"mdpress/internal/cache"
	"mdpress/internal/database"
	"mdpress/internal/importer"
	"mdpress/internal/markdown"
	"mdpress/internal/middleware"
	"mdpress/internal/render"
	"mdpress/internal/session"
	"mdpress/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "mdpress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "mdpress")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		// Clean up test session and cache keys.
		for _, pattern := range []string{"session:*", "page:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB            *sql.DB
	Valkey        *redis.Client
	Renderer      *render.Renderer
	Sessions      *session.Store
	ContentStore  *store.ContentStore
	CategoryStore *store.CategoryStore
	UserStore     *store.UserStore
	PageCache     *cache.PageCache
	Pipeline      *importer.Pipeline
	Admin         *Admin
	Auth          *Auth
	Import        *Import
	Public        *Public
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	renderer, err := render.New(true)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	sessions := session.NewStore(vk, false)
	contentStore := store.NewContentStore(db)
	categoryStore := store.NewCategoryStore(db)
	userStore := store.NewUserStore(db)
	pageCache := cache.NewPageCache(vk, 1*time.Minute)

	pipeline := importer.New(
		importer.RendererFunc(markdown.ToHTML),
		contentStore,
		categoryStore,
		SiteLinks{BaseURL: "http://localhost:8080"},
		nil,
	)

	admin := NewAdmin(renderer, sessions, contentStore, categoryStore, userStore, nil, pageCache)
	auth := NewAuth(renderer, sessions, userStore)
	imports := NewImport(renderer, pipeline, categoryStore, pageCache)
	public, err := NewPublic("MDPress", contentStore, pageCache)
	if err != nil {
		t.Fatalf("NewPublic: %v", err)
	}

	return &testEnv{
		DB:            db,
		Valkey:        vk,
		Renderer:      renderer,
		Sessions:      sessions,
		ContentStore:  contentStore,
		CategoryStore: categoryStore,
		UserStore:     userStore,
		PageCache:     pageCache,
		Pipeline:      pipeline,
		Admin:         admin,
		Auth:          auth,
		Import:        imports,
		Public:        public,
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// testSession creates a session.Data for testing.
func testSession(userID uuid.UUID, email, role string, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:      userID,
		Email:       email,
		DisplayName: "Test User",
		Role:        role,
		TwoFADone:   twoFADone,
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// testAuthorID returns a valid user ID for content creation.
func testAuthorID(t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	if err := db.QueryRow("SELECT id FROM users LIMIT 1").Scan(&id); err != nil {
		t.Fatalf("no users in database — run seed first: %v", err)
	}
	return id
}

// cleanContent removes test content by slug.
func cleanContent(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM content WHERE slug = $1", s)
	}
}
