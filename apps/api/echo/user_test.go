package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasku/backend/core/user"
)

func Test_userApi_register(t *testing.T) {
	app := setupApp(t)

	t.Run("ok: returns token and user", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/v1/users/register", "", map[string]string{
			"name":     "Jane Doe",
			"email":    "jdoe@alumnos.inacap.cl",
			"password": "s3cret!",
		})
		requireCode(t, rec, http.StatusCreated)

		var resp AuthResponse
		decode(t, rec, &resp)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "jdoe@alumnos.inacap.cl", resp.User.Email)
		assert.Equal(t, user.RoleStudent, resp.User.Role)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("non-institutional email", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/v1/users/register", "", map[string]string{
			"name":     "Mallory",
			"email":    "mallory@gmail.com",
			"password": "s3cret!",
		})
		requireCode(t, rec, http.StatusBadRequest)

		var fldErrs map[string]string
		decode(t, rec, &fldErrs)
		assert.Contains(t, fldErrs, "email")
	})

	t.Run("duplicate email", func(t *testing.T) {
		app.registerUser(t, "First", "dup@inacap.cl", "s3cret!", "")

		rec := app.request(t, http.MethodPost, "/v1/users/register", "", map[string]string{
			"name":     "Second",
			"email":    "dup@inacap.cl",
			"password": "s3cret!",
		})
		requireCode(t, rec, http.StatusBadRequest)

		var fldErrs map[string]string
		decode(t, rec, &fldErrs)
		assert.Contains(t, fldErrs, "email")
	})
}

func Test_userApi_login(t *testing.T) {
	app := setupApp(t)
	usr := app.registerUser(t, "Jane Doe", "jdoe@inacap.cl", "s3cret!", "")

	t.Run("ok", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/v1/users/login", "", map[string]string{
			"email":    "JDOE@inacap.cl",
			"password": "s3cret!",
		})
		requireCode(t, rec, http.StatusOK)

		var resp AuthResponse
		decode(t, rec, &resp)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, usr.ID, resp.User.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/v1/users/login", "", map[string]string{
			"email":    "jdoe@inacap.cl",
			"password": "letmein",
		})
		requireCode(t, rec, http.StatusBadRequest)
		assert.Contains(t, rec.Body.String(), "invalid credentials")
	})

	t.Run("unknown email: same failure", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/v1/users/login", "", map[string]string{
			"email":    "ghost@inacap.cl",
			"password": "s3cret!",
		})
		requireCode(t, rec, http.StatusBadRequest)
		assert.Contains(t, rec.Body.String(), "invalid credentials")
	})
}

func Test_userApi_me(t *testing.T) {
	app := setupApp(t)
	usr := app.registerUser(t, "Jane Doe", "jdoe@inacap.cl", "s3cret!", "")

	t.Run("no token", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/v1/users/me", "", nil)
		requireCode(t, rec, http.StatusUnauthorized)
	})

	t.Run("ok", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/v1/users/me", app.token(t, usr), nil)
		requireCode(t, rec, http.StatusOK)

		var got user.User
		decode(t, rec, &got)
		assert.Equal(t, usr.ID, got.ID)
		assert.Equal(t, usr.Email, got.Email)
	})
}

func Test_userApi_refreshToken(t *testing.T) {
	app := setupApp(t)
	usr := app.registerUser(t, "Jane Doe", "jdoe@inacap.cl", "s3cret!", "")

	rec := app.request(t, http.MethodPost, "/v1/users/token-refresh", app.token(t, usr), nil)
	requireCode(t, rec, http.StatusOK)

	var resp TokenResponse
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
}
