package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{BaseURL: server.URL + "/api"})
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New(Config{BaseURL: "not a url"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid backend url")
}

func TestCheckMe_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/checkme", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"user": map[string]any{
				"_id":               "U1",
				"name":              "Ada",
				"email":             "ada@example.com",
				"role":              "admin",
				"isProfileComplete": true,
			},
		})
	})

	user, err := client.CheckMe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "U1", user.ID)
	assert.Equal(t, types.RoleAdmin, user.Role)
	assert.True(t, user.ProfileComplete)
}

func TestCheckMe_DataEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"_id": "U2", "role": "user"},
		})
	})

	user, err := client.CheckMe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "U2", user.ID)
}

func TestCheckMe_Unauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "No token"})
	})

	_, err := client.CheckMe(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, IsAuthError(err))

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "No token", apiErr.UserMessage())
}

func TestCheckMe_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client, err := New(Config{BaseURL: baseURL})
	require.NoError(t, err)

	_, err = client.CheckMe(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, "The server could not be reached. Please try again.", Message(err))
}

func TestCheckMe_CanceledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.CheckMe(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSuccessFalseEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Already applied"})
	})

	_, err := client.Apply(context.Background(), "J1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackend)
	assert.Equal(t, "Already applied", Message(err))
}

func TestNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false})
	})

	_, err := client.JobDetails(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	})

	_, err := client.ListJobs(context.Background())
	assert.ErrorIs(t, err, ErrDecode)
}

func TestWithCookies_ForwardsBrowserSession(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("token")
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false})
			return
		}
		assert.Equal(t, "abc", cookie.Value)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": map[string]any{"_id": "U1", "role": "user"}})
	})

	_, err := client.CheckMe(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)

	ctx := WithCookies(context.Background(), []*http.Cookie{{Name: "token", Value: "abc"}})
	user, err := client.CheckMe(ctx)
	require.NoError(t, err)
	assert.Equal(t, "U1", user.ID)
}

func TestLogin_StoresCookieInJar(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var req types.LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "ada@example.com", req.Email)
			http.SetCookie(w, &http.Cookie{Name: "token", Value: "t0k", Path: "/"})
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Welcome"})
		case "/api/auth/checkme":
			cookie, err := r.Cookie("token")
			require.NoError(t, err)
			assert.Equal(t, "t0k", cookie.Value)
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": map[string]any{"_id": "U1", "role": "companyadmin"}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	result, err := client.Login(context.Background(), types.LoginRequest{Email: "ada@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "Welcome", result.Message)
	require.NotNil(t, result.User)
	assert.Equal(t, types.RoleCompanyAdmin, result.User.Role)
	require.Len(t, result.Cookies, 1)
	assert.Equal(t, "token", result.Cookies[0].Name)

	cookies := client.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "t0k", cookies[0].Value)
}

func TestSearchJobs_ParamsAndTotal(t *testing.T) {
	var got url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    []map[string]any{{"_id": "J1", "title": "Go engineer"}},
			"total":   13,
			"page":    2,
			"limit":   6,
		})
	})

	params := url.Values{"search": {"engineer"}, "type": {"Full-time"}, "page": {"2"}, "limit": {"6"}}
	page, err := client.SearchJobs(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, "engineer", got.Get("search"))
	assert.Equal(t, "Full-time", got.Get("type"))
	_, hasMode := got["jobMode"]
	assert.False(t, hasMode)

	require.Len(t, page.Jobs, 1)
	assert.Equal(t, 13, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 6, page.Limit)
}

func TestSearchJobs_TotalFallsBackToLength(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    []map[string]any{{"_id": "J1"}, {"_id": "J2"}},
		})
	})

	page, err := client.SearchJobs(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}

func TestSetCompanyApproval_Body(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/superadmin/company/C1/status", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"status":true}`, string(body))
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Company approved"})
	})

	msg, err := client.SetCompanyApproval(context.Background(), "C1", true)
	require.NoError(t, err)
	assert.Equal(t, "Company approved", msg)
}

func TestMutations_RoutesAndBodies(t *testing.T) {
	tests := []struct {
		name   string
		call   func(*Client) (string, error)
		method string
		path   string
		body   string
	}{
		{
			name:   "block user",
			call:   func(c *Client) (string, error) { return c.SetUserBlocked(context.Background(), "U9", true) },
			method: http.MethodPatch, path: "/api/superadmin/user/U9/status", body: `{"isBlocked":true}`,
		},
		{
			name:   "force close job",
			call:   func(c *Client) (string, error) { return c.ForceCloseJob(context.Background(), "J3", true) },
			method: http.MethodPatch, path: "/api/superadmin/job/J3/status", body: `{"forceClosed":true}`,
		},
		{
			name:   "close own job",
			call:   func(c *Client) (string, error) { return c.SetJobStatus(context.Background(), "J3", types.JobClosed) },
			method: http.MethodPatch, path: "/api/companyadmin/job/J3/status", body: `{"status":"Closed"}`,
		},
		{
			name: "record result",
			call: func(c *Client) (string, error) {
				return c.RecordInterviewResult(context.Background(), "A1", types.ResultHired)
			},
			method: http.MethodPatch, path: "/api/companyadmin/application/A1/result", body: `{"result":"hired"}`,
		},
		{
			name:   "withdraw",
			call:   func(c *Client) (string, error) { return c.Withdraw(context.Background(), "A1") },
			method: http.MethodDelete, path: "/api/user/withdrawapplication/A1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.method, r.Method)
				assert.Equal(t, tt.path, r.URL.Path)
				if tt.body != "" {
					body, _ := io.ReadAll(r.Body)
					assert.JSONEq(t, tt.body, string(body))
				}
				writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "ok"})
			})

			msg, err := tt.call(client)
			require.NoError(t, err)
			assert.Equal(t, "ok", msg)
		})
	}
}

func TestSubmitProfile_Multipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Ada", r.FormValue("firstName"))
		assert.JSONEq(t, `["go","sql"]`, r.FormValue("skills"))

		file, header, err := r.FormFile("resume")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "cv.pdf", header.Filename)
		assert.Equal(t, "%PDF-1.4", string(data))

		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Profile saved"})
	})

	msg, err := client.SubmitProfile(context.Background(), &Multipart{
		Fields: map[string]string{"firstName": "Ada", "skills": `["go","sql"]`},
		Files: []File{{
			Param:       "resume",
			Name:        "cv.pdf",
			ContentType: "application/pdf",
			Reader:      strings.NewReader("%PDF-1.4"),
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Profile saved", msg)
}

func TestAdminUserProfile_ReducedView(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"firstName": "Ada", "lastName": "Lovelace", "phone": "555", "bio": "private",
				"skills": []string{"go"},
			},
		})
	})

	view, err := client.AdminUserProfile(context.Background(), "U1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", view.Name)
	assert.Equal(t, []string{"go"}, view.Skills)
}

func TestGetProfile_NullData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": nil})
	})

	profile, err := client.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestError_Message(t *testing.T) {
	err := &Error{Op: "Apply", Status: 403, Kind: ErrForbidden}
	assert.Equal(t, "Apply: forbidden (HTTP 403)", err.Error())
	assert.Equal(t, "You do not have permission to do that.", err.UserMessage())
	assert.True(t, errors.Is(err, ErrForbidden))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "plain", Message(errors.New("plain")))
}

func TestDiscardJar_KeepsSessionsApart(t *testing.T) {
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/login" {
			http.SetCookie(w, &http.Cookie{Name: "token", Value: "U1", Path: "/"})
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": map[string]any{"_id": "U1", "role": "user"}})
			return
		}
		c, err := r.Cookie("token")
		if err != nil {
			seen = append(seen, "")
		} else {
			seen = append(seen, c.Value)
		}
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false})
	}))
	t.Cleanup(server.Close)

	client, err := New(Config{BaseURL: server.URL + "/api", Jar: DiscardJar{}})
	require.NoError(t, err)

	result, err := client.Login(context.Background(), types.LoginRequest{Email: "a@b.co", Password: "pw"})
	require.NoError(t, err)
	require.Len(t, result.Cookies, 1)
	assert.Empty(t, client.Cookies())

	_, err = client.CheckMe(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{""}, seen)
}
