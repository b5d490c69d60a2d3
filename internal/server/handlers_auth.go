package server

import (
	"net/http"
	"strings"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/actions"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/forms"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/server/flash"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/session"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

// handleHome sends signed-in visitors to their landing page.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	snap := s.sessionFor(r).Load(r.Context())
	if snap.Authenticated() {
		http.Redirect(w, r, landingPath(snap.User), http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "home", page{Title: "Find your next job"})
}

func (s *Server) handleAccessDenied(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusForbidden, "access_denied", page{Title: "Access denied"})
}

// handleMe shows the signed-in identity.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := session.UserFrom(r.Context())
	s.render(w, r, http.StatusOK, "me", page{Title: "Your account", Data: user})
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", page{Title: "Log in", Form: types.LoginRequest{}})
}

// handleLogin authenticates against the backend, relays its session cookie
// and sends the user to their role's landing page.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	req := types.LoginRequest{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	echo := types.LoginRequest{Email: req.Email}

	if err := forms.Validate(req); err != nil {
		s.renderForm(w, r, "login", page{Title: "Log in", Form: echo}, err)
		return
	}

	res, err := s.client.Login(r.Context(), req)
	if err != nil {
		s.renderForm(w, r, "login", page{Title: "Log in", Form: echo}, err)
		return
	}

	relayCookies(w, res.Cookies)
	message := res.Message
	if message == "" {
		message = "Welcome back, " + res.User.Name
	}
	s.flash.Set(w, actions.Notification{Level: actions.LevelSuccess, Message: message})
	http.Redirect(w, r, landingPath(res.User), http.StatusSeeOther)
}

// handleLogout ends the backend session and clears every cookie the
// browser sent, whether or not the backend answered.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	cookies, err := s.client.Logout(r.Context())
	if err != nil {
		logger.Info("backend logout failed", "err", err)
	}
	relayed := map[string]bool{}
	for _, c := range cookies {
		relayed[c.Name] = true
	}
	relayCookies(w, cookies)
	for _, c := range r.Cookies() {
		if c.Name != flash.CookieName && !relayed[c.Name] {
			http.SetCookie(w, &http.Cookie{Name: c.Name, Value: "", Path: "/", MaxAge: -1})
		}
	}
	s.flash.Set(w, actions.Notification{Level: actions.LevelInfo, Message: "You have been logged out"})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "register", page{Title: "Create an account", Form: types.RegistrationRequest{}})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	req := types.RegistrationRequest{
		Name:            strings.TrimSpace(r.PostFormValue("name")),
		Email:           strings.TrimSpace(r.PostFormValue("email")),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
	}
	echo := types.RegistrationRequest{Name: req.Name, Email: req.Email}

	if err := forms.Validate(req); err != nil {
		s.renderForm(w, r, "register", page{Title: "Create an account", Form: echo}, err)
		return
	}
	msg, err := s.client.Register(r.Context(), req)
	if err != nil {
		s.renderForm(w, r, "register", page{Title: "Create an account", Form: echo}, err)
		return
	}
	s.succeed(w, r, msg, "Account created. Please log in.", "/login")
}

func (s *Server) handleRegisterCompanyPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "register_company", page{Title: "Register your company", Form: types.CompanyRegistrationRequest{}})
}

func (s *Server) handleRegisterCompany(w http.ResponseWriter, r *http.Request) {
	req := types.CompanyRegistrationRequest{
		CompanyName: strings.TrimSpace(r.PostFormValue("companyName")),
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		Password:    r.PostFormValue("password"),
		Phone:       strings.TrimSpace(r.PostFormValue("phone")),
		Location:    strings.TrimSpace(r.PostFormValue("location")),
		Field:       strings.TrimSpace(r.PostFormValue("field")),
		Website:     strings.TrimSpace(r.PostFormValue("website")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
	}
	echo := req
	echo.Password = ""

	if err := forms.Validate(req); err != nil {
		s.renderForm(w, r, "register_company", page{Title: "Register your company", Form: echo}, err)
		return
	}
	msg, err := s.client.RegisterCompany(r.Context(), req)
	if err != nil {
		s.renderForm(w, r, "register_company", page{Title: "Register your company", Form: echo}, err)
		return
	}
	s.succeed(w, r, msg, "Company registered. You can log in once an administrator approves it.", "/login")
}

func (s *Server) handleForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "forgot_password", page{Title: "Forgot password", Form: types.ForgotPasswordRequest{}})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	req := types.ForgotPasswordRequest{Email: strings.TrimSpace(r.PostFormValue("email"))}
	if err := forms.Validate(req); err != nil {
		s.renderForm(w, r, "forgot_password", page{Title: "Forgot password", Form: req}, err)
		return
	}
	msg, err := s.client.ForgotPassword(r.Context(), req)
	if err != nil {
		s.renderForm(w, r, "forgot_password", page{Title: "Forgot password", Form: req}, err)
		return
	}
	s.succeed(w, r, msg, "If that address is registered, a reset link is on its way.", "/login")
}

func (s *Server) handleResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "reset_password", page{
		Title: "Choose a new password",
		Data:  r.PathValue("id"),
	})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	req := types.ResetPasswordRequest{
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
	}
	if err := forms.Validate(req); err != nil {
		s.renderForm(w, r, "reset_password", page{Title: "Choose a new password", Data: id}, err)
		return
	}
	msg, err := s.client.ResetPassword(r.Context(), id, req)
	if err != nil {
		s.renderForm(w, r, "reset_password", page{Title: "Choose a new password", Data: id}, err)
		return
	}
	s.succeed(w, r, msg, "Password updated. Please log in.", "/login")
}

// succeed flashes the backend's message, or fallback, and redirects.
func (s *Server) succeed(w http.ResponseWriter, r *http.Request, message, fallback, target string) {
	if message == "" {
		message = fallback
	}
	s.flash.Set(w, actions.Notification{Level: actions.LevelSuccess, Message: message})
	http.Redirect(w, r, target, http.StatusSeeOther)
}
