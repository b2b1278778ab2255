package httpserver

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fdtraverso/mercadito/internal/db"
	"github.com/fdtraverso/mercadito/internal/identity"
	"github.com/fdtraverso/mercadito/internal/models"
	"github.com/fdtraverso/mercadito/internal/repo"
	"github.com/fdtraverso/mercadito/internal/service"
	"github.com/fdtraverso/mercadito/internal/session"
)

type fakeProvider struct {
	claims    identity.Claims
	lastState string
}

func (f *fakeProvider) AuthURL(state string) string {
	f.lastState = state
	return "https://id.test/auth?state=" + state
}

func (f *fakeProvider) Exchange(_ context.Context, code string) (*identity.Claims, error) {
	if code != "good-code" {
		return nil, errors.New("invalid code")
	}
	c := f.claims
	return &c, nil
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) Put(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return "https://blobs.test/" + key, nil
}

func (f *fakeStorage) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

type recordedEvent struct {
	Topic string
	Event map[string]any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, _ string, event any) error {
	m, _ := event.(map[string]any)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Topic: topic, Event: m})
	return nil
}

func (p *recordingPublisher) ofType(typ string) []recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []recordedEvent
	for _, e := range p.events {
		if e.Event["type"] == typ {
			out = append(out, e)
		}
	}
	return out
}

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	DB       *gorm.DB
	Repo     *repo.GormRepo
	Sessions *session.Store
	Provider *fakeProvider
	Storage  *fakeStorage
	Events   *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))

	gormRepo := repo.New(gdb)
	sessions := session.NewStore(gdb, time.Hour)
	provider := &fakeProvider{
		claims: identity.Claims{
			ExternalID: "g-default",
			Email:      "default@example.com",
			Name:       "Default User",
			Picture:    "https://id.test/pic.png",
		},
	}
	storage := newFakeStorage()
	publisher := &recordingPublisher{}

	accounts := &service.AccountService{Repo: gormRepo}
	catalog := &service.CatalogService{Repo: gormRepo}
	orders := &service.OrderService{Repo: gormRepo}

	e := echo.New()
	Register(e, &Deps{
		Sessions: sessions,
		AuthHandler: &AuthHandler{
			Sessions: sessions,
			Accounts: accounts,
			Orders:   orders,
			Provider: provider,
			Producer: publisher,
		},
		ProductHandler: &ProductHandler{
			Catalog:  catalog,
			Storage:  storage,
			Producer: publisher,
		},
		OrderHandler: &OrderHandler{
			Orders:   orders,
			Producer: publisher,
		},
		SearchHandler: &SearchHandler{},
	})

	return &testEnv{
		T:        t,
		E:        e,
		DB:       gdb,
		Repo:     gormRepo,
		Sessions: sessions,
		Provider: provider,
		Storage:  storage,
		Events:   publisher,
	}
}

func (env *testEnv) do(method, target, contentType string, body io.Reader, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	env.T.Helper()

	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

// loginAs creates an account plus a logged-in session and hands back
// the cookie the browser would carry.
func (env *testEnv) loginAs(googleID, email string) (*models.Account, *http.Cookie) {
	env.T.Helper()
	ctx := context.Background()

	acc, err := env.Repo.ReconcileAccount(ctx, googleID, email, "user "+email, "")
	require.NoError(env.T, err)

	sess, err := env.Sessions.Create(ctx)
	require.NoError(env.T, err)
	require.NoError(env.T, env.Sessions.Login(ctx, sess, acc.ID))

	return acc, env.Sessions.Cookie(sess)
}

func (env *testEnv) createProduct(sellerID uint, name string, price float64, stock int) *models.Product {
	env.T.Helper()
	prod := models.Product{
		Name:        name,
		Description: "test product",
		Price:       price,
		Stock:       stock,
		ImageURL:    "https://blobs.test/img.png",
		SellerID:    sellerID,
	}
	require.NoError(env.T, env.DB.Create(&prod).Error)
	return &prod
}

func jsonBody(s string) io.Reader { return strings.NewReader(s) }

func multipartBody(t *testing.T, fields map[string]string, filename string, content []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}
