package handlers

import (
	"chatapp-client/internal/jwt"
	"chatapp-client/internal/viewmodel"
	"net/http"
)

func (s *Server) auth(r *http.Request) *viewmodel.Auth {
	return viewmodel.NewAuth(r.Context(), s.sugar, s.uc)
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	type Login struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		RememberMe bool   `json:"rememberMe"`
	}

	var login Login
	if !s.decode(w, r, &login) {
		return
	}

	vm := s.auth(r)
	defer vm.Close()

	<-vm.Login(login.Email, login.Password, login.RememberMe)

	state := vm.State()
	if state.Error != "" {
		s.fail(w, state.Error)
		return
	}

	session := state.Session
	cookie := s.backend.Signer.Cookie(session.Token, session.ExpiresAt, session.Remember)
	http.SetCookie(w, &cookie)

	s.respond(w, session)
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	type Registration struct {
		Email           string `json:"email"`
		UserName        string `json:"userName"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}

	var registration Registration
	if !s.decode(w, r, &registration) {
		return
	}

	vm := s.auth(r)
	defer vm.Close()

	<-vm.Register(registration.Email, registration.Password, registration.ConfirmPassword, registration.UserName)

	state := vm.State()
	if state.Error != "" {
		s.fail(w, state.Error)
		return
	}

	w.WriteHeader(http.StatusCreated)
	s.respond(w, state.User)
}

// Logout revokes the token of the cookie, if there is one, and drops the cookie.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	deleteCookie := jwt.DeleteCookie()

	jwtCookie, err := r.Cookie(jwt.CookieName)
	if err != nil {
		http.SetCookie(w, &deleteCookie)
		return
	}

	vm := s.auth(r)
	defer vm.Close()

	<-vm.Logout(jwtCookie.Value)

	state := vm.State()
	if state.Error != "" {
		s.fail(w, state.Error)
		return
	}

	http.SetCookie(w, &deleteCookie)
}

func (s *Server) SendPasswordReset(w http.ResponseWriter, r *http.Request) {
	type Reset struct {
		Email string `json:"email"`
	}

	var reset Reset
	if !s.decode(w, r, &reset) {
		return
	}

	vm := s.auth(r)
	defer vm.Close()

	<-vm.SendPasswordReset(reset.Email)

	state := vm.State()
	if state.Error != "" {
		s.fail(w, state.Error)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) ResetPassword(w http.ResponseWriter, r *http.Request) {
	type Confirm struct {
		Token           string `json:"token"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}

	var confirm Confirm
	if !s.decode(w, r, &confirm) {
		return
	}

	vm := s.auth(r)
	defer vm.Close()

	<-vm.ResetPassword(confirm.Token, confirm.Password, confirm.ConfirmPassword)

	state := vm.State()
	if state.Error != "" {
		s.fail(w, state.Error)
		return
	}
}

// IsLoggedIn answers with the user behind the cookie.
func (s *Server) IsLoggedIn(w http.ResponseWriter, r *http.Request) {
	s.respond(w, currentUser(r))
}
