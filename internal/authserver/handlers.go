package authserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/kitdeneme/kit/internal/auth"
	"github.com/kitdeneme/kit/internal/authapi"
	"github.com/kitdeneme/kit/internal/log"
	"github.com/kitdeneme/kit/internal/validator"
)

const maxBodyBytes = 1 << 16

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req authapi.RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	if field := s.rules.Check(req.Username, req.Email, req.Password); field != validator.FieldNone {
		writeError(w, http.StatusBadRequest, authapi.ErrorResponse{
			Code:    authapi.CodeInvalidField,
			Message: "invalid " + field.String(),
			Field:   field.String(),
		})
		return
	}

	u, err := s.svc.Register(r.Context(), auth.Credentials{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authapi.FromUser(u))
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req authapi.SignInRequest
	if !decode(w, r, &req) {
		return
	}

	u, token, err := s.svc.Authenticate(r.Context(), req.Identifier, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authapi.SessionResponse{Token: token, User: authapi.FromUser(u)})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.Resolve(r.Context(), bearer(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authapi.FromUser(u))
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Revoke(r.Context(), bearer(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req authapi.ChangePasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if !s.rules.Password(req.Next) {
		writeError(w, http.StatusBadRequest, authapi.ErrorResponse{
			Code:    authapi.CodeInvalidField,
			Message: "invalid password",
			Field:   validator.FieldPassword.String(),
		})
		return
	}

	if err := s.svc.ChangePassword(r.Context(), bearer(r), req.Current, req.Next); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.VerifyEmail(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authapi.FromUser(u))
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, authapi.ErrorResponse{
			Code:    authapi.CodeBadRequest,
			Message: "malformed request body",
		})
		return false
	}
	return true
}

func writeServiceError(w http.ResponseWriter, err error) {
	status, code := authapi.StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.ErrorErr(log.CatHTTP, "Request failed", err)
		msg = "internal error"
	}
	writeError(w, status, authapi.ErrorResponse{Code: code, Message: msg})
}

func writeError(w http.ResponseWriter, status int, body authapi.ErrorResponse) {
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.ErrorErr(log.CatHTTP, "Writing response failed", err)
	}
}
