package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stayhub/internal/app"
	"stayhub/internal/domain"
)

type sessionPayload struct {
	Token string          `json:"token"`
	User  domain.SafeUser `json:"user"`
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var in app.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body")
		return
	}
	user, token, err := h.A.Register(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, sessionPayload{Token: token, User: user})
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body")
		return
	}
	user, token, err := h.A.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, sessionPayload{Token: token, User: user})
}

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	user, err := h.A.GetUser(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

func (h *Handlers) changePassword(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())

	var in struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body")
		return
	}
	if err := h.A.ChangePassword(r.Context(), actor.ID, in.OldPassword, in.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, nil, "password changed")
}

func (h *Handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	users, err := h.A.ListUsers(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, users)
}

func (h *Handlers) updateUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())

	var in app.UpdateUserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body")
		return
	}
	user, err := h.A.UpdateUser(r.Context(), actor, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

func (h *Handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	if err := h.A.DeleteUser(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, nil, "user deleted")
}
