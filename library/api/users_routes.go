package api

import (
	"errors"
	"net/http"

	"github.com/AntonStoeckl/library-lending/library/auth"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userData struct {
	User UserDTO `json:"user"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var request loginRequest
	if err := decodeJSON(r, &request); err != nil {
		writeFailure(w, err)
		return
	}

	session, err := s.sessions.Login(r.Context(), request.Email, request.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeUnauthorized(w, "invalid email or password")
			return
		}

		writeFailure(w, err)
		return
	}

	rights, err := s.profiles.RightsOf(r.Context(), session.User.ID)
	if err != nil {
		writeFailure(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	writeSuccess(w, http.StatusOK, "login successful", SessionDTO{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      toUserDTO(session.User, rights),
	})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request, userID librarystore.UserIDInt64) {
	user, err := s.profiles.UserByID(r.Context(), userID)
	if err != nil {
		writeFailure(w, err)
		return
	}

	rights, err := s.profiles.RightsOf(r.Context(), userID)
	if err != nil {
		writeFailure(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "user found", userData{User: toUserDTO(user, rights)})
}
