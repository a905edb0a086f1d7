package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/smarttask/internal/common"
	"github.com/dmitrijs2005/smarttask/internal/models"
	"github.com/dmitrijs2005/smarttask/internal/server/auth"
	"github.com/dmitrijs2005/smarttask/internal/services"
)

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	StudentID string `json:"studentId"`
	Major     string `json:"major"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string             `json:"token"`
	Student models.AccountView `json:"student"`
}

type profileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Major     *string `json:"major"`
}

type passwordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	account, err := s.accounts.Register(r.Context(), services.Registration{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		ExternalID: req.StudentID,
		Major:      req.Major,
		Password:   req.Password,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, account.View())
}

// login answers 401 for both unknown emails and wrong passwords.
func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	account, err := s.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrWrongPassword) {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid email or password"})
			return
		}
		s.writeError(w, r, err)
		return
	}

	token, err := auth.GenerateToken(account.Email, s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, Student: account.View()})
}

func (s *HTTPServer) getProfile(w http.ResponseWriter, r *http.Request) {
	account, err := s.accounts.FindByEmail(r.Context(), emailFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account.View())
}

func (s *HTTPServer) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	account, err := s.accounts.UpdateProfile(r.Context(), emailFrom(r.Context()), services.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Major:     req.Major,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account.View())
}

func (s *HTTPServer) changePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.accounts.ChangePassword(r.Context(), emailFrom(r.Context()), req.OldPassword, req.NewPassword); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) deactivate(w http.ResponseWriter, r *http.Request) {
	if err := s.accounts.Deactivate(r.Context(), emailFrom(r.Context())); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
