package server

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/api/apitest"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/server/flash"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

func TestLogin_RelaysCookieAndRedirectsByRole(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		user types.SessionUser
		want string
	}{
		{seeker, "/jobs"},
		{newcomer, "/profile"},
		{employer, "/company/jobs"},
		{root, "/admin/companies?view=pending"},
	}
	for _, tt := range tests {
		t.Run(tt.user.Email, func(t *testing.T) {
			c := f.browser()
			resp := f.post(c, "/login", url.Values{"email": {tt.user.Email}, "password": {testPassword}})
			require.Equal(t, http.StatusSeeOther, resp.StatusCode)
			assert.Equal(t, tt.want, resp.Header.Get("Location"))

			var session *http.Cookie
			for _, ck := range resp.Cookies() {
				if ck.Name == apitest.CookieName {
					session = ck
				}
			}
			require.NotNil(t, session, "backend session cookie must reach the browser")
			assert.Equal(t, tt.user.ID, session.Value)
			assert.True(t, session.HttpOnly)

			_, doc := f.get(c, tt.want)
			assert.Equal(t, "Logged in", flashText(doc))
			assert.Equal(t, tt.user.Name, doc.Find(".whoami").Text())
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newFixture(t)
	c := f.browser()
	resp, err := c.PostForm(f.url+"/login", url.Values{"email": {seeker.Email}, "password": {"nope"}})
	require.NoError(t, err)
	doc := document(t, resp)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", doc.Find(".form-error").Text())
	assert.Equal(t, seeker.Email, doc.Find(`input[name="email"]`).AttrOr("value", ""))
	assert.Equal(t, "", doc.Find(`input[name="password"]`).AttrOr("value", ""))
	for _, ck := range resp.Cookies() {
		assert.NotEqual(t, apitest.CookieName, ck.Name)
	}
}

func TestLogin_FieldValidation(t *testing.T) {
	f := newFixture(t)
	resp, err := f.browser().PostForm(f.url+"/login", url.Values{"email": {"not-an-email"}})
	require.NoError(t, err)
	doc := document(t, resp)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "must be a valid email address", fieldError(doc, "email"))
	assert.Equal(t, "is required", fieldError(doc, "password"))
	assert.Empty(t, backendCalls(f.backend, http.MethodPost, "/auth/login"))
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	c := f.loggedIn(seeker)

	resp := f.post(c, "/logout", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Len(t, backendCalls(f.backend, http.MethodPost, "/auth/logout"), 1)

	_, doc := f.get(c, "/login")
	assert.Equal(t, "You have been logged out", flashText(doc))

	after, _ := f.get(c, "/jobs")
	assert.Equal(t, http.StatusSeeOther, after.StatusCode)
	assert.Equal(t, "/access-denied", after.Header.Get("Location"))
}

func TestRegister(t *testing.T) {
	f := newFixture(t)

	t.Run("mismatched passwords stay local", func(t *testing.T) {
		resp, err := f.browser().PostForm(f.url+"/register", url.Values{
			"name": {"Cleo"}, "email": {"cleo@example.com"},
			"password": {"longenough"}, "confirmPassword": {"different1"},
		})
		require.NoError(t, err)
		doc := document(t, resp)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "does not match", fieldError(doc, "confirmPassword"))
		assert.Equal(t, "Cleo", doc.Find(`input[name="name"]`).AttrOr("value", ""))
		assert.Empty(t, backendCalls(f.backend, http.MethodPost, "/auth/registration"))
	})

	t.Run("success", func(t *testing.T) {
		c := f.browser()
		resp := f.post(c, "/register", url.Values{
			"name": {"Cleo"}, "email": {"cleo@example.com"},
			"password": {"longenough"}, "confirmPassword": {"longenough"},
		})
		_, doc := f.follow(c, resp)
		assert.Equal(t, "Registration successful", flashText(doc))

		calls := backendCalls(f.backend, http.MethodPost, "/auth/registration")
		require.Len(t, calls, 1)
		assert.JSONEq(t, `{"name":"Cleo","email":"cleo@example.com","password":"longenough"}`, calls[0].Body)
	})
}

func TestRegisterCompany(t *testing.T) {
	f := newFixture(t)
	form := url.Values{
		"companyName": {"Hooli"}, "email": {"hr@hooli.test"}, "password": {"longenough"},
		"phone": {"+1 555 0100"}, "location": {"Palo Alto"}, "field": {"Software"},
		"website": {"notaurl"},
	}

	resp, err := f.browser().PostForm(f.url+"/register-company", form)
	require.NoError(t, err)
	doc := document(t, resp)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "must be a valid URL", fieldError(doc, "website"))

	form.Set("website", "https://hooli.test")
	c := f.browser()
	_, doc = f.follow(c, f.post(c, "/register-company", form))
	assert.Equal(t, "Company registered, awaiting approval", flashText(doc))
}

func TestPasswordReset(t *testing.T) {
	f := newFixture(t)
	c := f.browser()

	_, doc := f.follow(c, f.post(c, "/forgot-password", url.Values{"email": {seeker.Email}}))
	assert.Equal(t, "Reset link sent", flashText(doc))

	_, doc = f.get(c, "/reset-password/tok123")
	assert.Equal(t, "/reset-password/tok123", doc.Find("form").AttrOr("action", ""))

	resp, err := c.PostForm(f.url+"/reset-password/tok123", url.Values{"password": {"short"}, "confirmPassword": {"short"}})
	require.NoError(t, err)
	doc = document(t, resp)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.NotEmpty(t, fieldError(doc, "password"))

	_, doc = f.follow(c, f.post(c, "/reset-password/tok123", url.Values{"password": {"longenough"}, "confirmPassword": {"longenough"}}))
	assert.Equal(t, "Password updated", flashText(doc))
	assert.Len(t, backendCalls(f.backend, http.MethodPost, "/auth/reset-password/tok123"), 1)
}

func TestFlash_ClearedOnceShown(t *testing.T) {
	f := newFixture(t)
	c := f.loggedIn(seeker)

	_, doc := f.get(c, "/jobs")
	assert.Equal(t, "Logged in", flashText(doc))
	_, doc = f.get(c, "/jobs")
	assert.Empty(t, flashText(doc))

	u, _ := url.Parse(f.url)
	names := map[string]bool{}
	for _, ck := range c.Jar.Cookies(u) {
		names[ck.Name] = true
	}
	assert.True(t, names[apitest.CookieName])
	assert.False(t, names[flash.CookieName], "flash is cleared once shown")
}

func TestBackendCookies_ExcludeFlash(t *testing.T) {
	f := newFixture(t)
	c := f.loggedIn(seeker)
	_, _ = f.get(c, "/applications")

	calls := backendCalls(f.backend, http.MethodGet, "/user/myapplications")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Cookies, apitest.CookieName)
	assert.NotContains(t, calls[0].Cookies, flash.CookieName)
}
