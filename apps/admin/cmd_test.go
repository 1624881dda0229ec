package main

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasku/backend/core"
	"github.com/tasku/backend/core/event"
	"github.com/tasku/backend/core/notification"
	"github.com/tasku/backend/core/user"
	dummydb "github.com/tasku/backend/storage/database/dummy"
)

func setup(t *testing.T) (*commandLine, notification.Repository, event.Repository) {
	db, err := dummydb.Open()
	require.NoError(t, err)

	conf := &core.Config{
		AllowedEmailDomains: []string{"@inacap.cl"},
		Notification:        core.NotificationConfig{ReminderLead: 24 * time.Hour, RetentionDays: 30},
	}
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator, conf)

	ntfRepo := dummydb.NewNotificationRepository(db)
	cli := &commandLine{
		usrSvc: user.NewService(dummydb.NewUserRepository(db), core.NopLogger{}, validate),
		ntfSvc: notification.NewService(ntfRepo, core.NopLogger{}, conf),
	}
	return cli, ntfRepo, dummydb.NewEventRepository(db)
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _, _ := setup(t)

	migrationRunFunc = func(command string, db *sql.DB, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s requires VERSION", command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create requires NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to requires VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "events", "sql"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				} else if tt.wantErrStr != "" {
					assert.EqualError(t, err, tt.wantErrStr)
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, _, _ := setup(t)
	ctx := context.Background()

	usr, err := cli.usrSvc.Register(ctx, user.NewUser{Name: "Jane Doe", Email: "jdoe@inacap.cl", Password: "s3cret!"})
	require.NoError(t, err)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol@inacap.cl"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@inacap.cl"}, extra: extra{pwd: "lol"}, wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", usr.Email}, extra: extra{pwd: "n3wpass"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				_, err := cli.usrSvc.Authenticate(ctx, usr.Email, "n3wpass")
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_purgeNotifications(t *testing.T) {
	cli, ntfRepo, evtRepo := setup(t)
	ctx := context.Background()

	evt1, err := evtRepo.CreateEvent(ctx, event.Event{Title: "First", DueAt: time.Now().Add(time.Hour), Status: event.StatusPending, OwnerID: 1})
	require.NoError(t, err)
	evt2, err := evtRepo.CreateEvent(ctx, event.Event{Title: "Second", DueAt: time.Now().Add(time.Hour), Status: event.StatusPending, OwnerID: 1})
	require.NoError(t, err)

	old := time.Now().UTC().AddDate(0, 0, -40)
	ntf, err := ntfRepo.CreateNotification(ctx, notification.Notification{
		Kind: notification.KindReminder24h, FireAt: old, Read: true, EventID: evt1.ID, UserID: 1,
	})
	require.NoError(t, err)
	_, err = ntfRepo.CreateNotification(ctx, notification.Notification{
		Kind: notification.KindReminder24h, FireAt: old, EventID: evt2.ID, UserID: 1,
	})
	require.NoError(t, err)

	require.NoError(t, cli.run([]string{"admin", "purgenotifs"}))

	assert.ErrorIs(t, ntfRepo.MarkNotificationRead(ctx, ntf.ID), notification.ErrNotFound)

	left, err := ntfRepo.QueryUnreadByUser(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}
