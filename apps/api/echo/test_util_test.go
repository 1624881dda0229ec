package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/tasku/backend/core"
	"github.com/tasku/backend/core/event"
	"github.com/tasku/backend/core/notification"
	"github.com/tasku/backend/core/subject"
	"github.com/tasku/backend/core/user"
	dummydb "github.com/tasku/backend/storage/database/dummy"
)

type testApp struct {
	server Server
	conf   *core.Config

	usrSvc *user.Service
	evtSvc *event.Service
	ntfSvc *notification.Service
	subSvc *subject.Service
}

func newTestConfig() *core.Config {
	return &core.Config{
		TestMode:            true,
		Env:                 "TEST",
		AppName:             "TaskU",
		SecretKey:           "secret",
		AllowedEmailDomains: []string{"@inacap.cl", "@alumnos.inacap.cl", "@profesor.inacap.cl"},
		Server: core.ServerConfig{
			Addr:                      ":0",
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
		Notification: core.NotificationConfig{
			ReminderLead:  24 * time.Hour,
			RetentionDays: 30,
		},
	}
}

func setupApp(t *testing.T) *testApp {
	db, err := dummydb.Open()
	require.NoError(t, err)

	conf := newTestConfig()
	logger := core.NopLogger{}

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator, conf)

	usrSvc := user.NewService(dummydb.NewUserRepository(db), logger, validate)
	ntfSvc := notification.NewService(dummydb.NewNotificationRepository(db), logger, conf)
	evtSvc := event.NewService(dummydb.NewEventRepository(db), ntfSvc, logger, validate)
	subSvc := subject.NewService(dummydb.NewSubjectRepository(db), validate)

	server := NewServer(ServerDeps{
		Conf:            conf,
		Logger:          logger,
		UserSvc:         usrSvc,
		EventSvc:        evtSvc,
		NotificationSvc: ntfSvc,
		SubjectSvc:      subSvc,
		Validate:        validate,
		Translator:      translator,
	})

	return &testApp{
		server: server,
		conf:   conf,
		usrSvc: usrSvc,
		evtSvc: evtSvc,
		ntfSvc: ntfSvc,
		subSvc: subSvc,
	}
}

func (app *testApp) registerUser(t *testing.T, name, email, pwd, role string) user.User {
	usr, err := app.usrSvc.Register(context.Background(), user.NewUser{
		Name:     name,
		Email:    email,
		Password: pwd,
		Role:     role,
	})
	require.NoError(t, err)
	return usr
}

func (app *testApp) createEvent(t *testing.T, ownerID int, title string, dueAt time.Time) event.Event {
	evt, _, err := app.evtSvc.Create(context.Background(), ownerID, event.NewEvent{Title: title, DueAt: dueAt})
	require.NoError(t, err)
	return evt
}

func (app *testApp) token(t *testing.T, usr user.User) string {
	token, err := GenerateToken(app.conf, GetUserClaims(app.conf, usr))
	require.NoError(t, err)
	return token
}

func (app *testApp) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echoHeaderContentType, echoMIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
	return rec
}

const (
	echoHeaderContentType   = "Content-Type"
	echoMIMEApplicationJSON = "application/json"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func requireCode(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	require.Equal(t, want, rec.Code, "unexpected status; body: %s", rec.Body.String())
}
