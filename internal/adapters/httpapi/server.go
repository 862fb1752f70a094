package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/oapi-codegen/nullable"
	"github.com/sirupsen/logrus"

	"github.com/Overland-East-Bay/transit-records/internal/app/records"
	"github.com/Overland-East-Bay/transit-records/internal/domain"
)

const maxBodyBytes = 16 << 20

// Server exposes the records façade over HTTP.
type Server struct {
	Records *records.Service
	Log     logrus.FieldLogger
}

func NewServer(svc *records.Service, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{Records: svc, Log: log}
}

// listHandler serves a collection as a JSON array.
func listHandler[T any](s *Server, get func(context.Context) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := get(r.Context())
		if err != nil {
			s.Log.WithError(err).WithField("path", r.URL.Path).Error("read collection")
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// replaceHandler replaces a collection with the JSON array in the request body.
func replaceHandler[T any](s *Server, save func(context.Context, []T) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var items *[]T
		if !decodeBody(w, r, &items) {
			return
		}
		if items == nil {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "request body must be a JSON array", nil)
			return
		}
		if err := save(r.Context(), *items); err != nil {
			s.Log.WithError(err).WithField("path", r.URL.Path).Error("save collection")
			writeAppError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) saveUsers(ctx context.Context, users []domain.User) error {
	s.Records.SaveUsers(ctx, users)
	return nil
}

type currentUserResponse struct {
	User domain.User `json:"user"`
}

type currentUserRequest struct {
	User nullable.Nullable[domain.User] `json:"user"`
}

func (s *Server) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	u, ok, err := s.Records.GetCurrentUser(r.Context())
	if err != nil {
		s.Log.WithError(err).Error("read current user")
		writeAppError(w, r, err)
		return
	}
	if !ok {
		writeError(w, r, http.StatusNotFound, "NO_CURRENT_USER", "no user is signed in", nil)
		return
	}
	writeJSON(w, http.StatusOK, currentUserResponse{User: u})
}

// PutCurrentUser accepts {"user": {...}} to sign a user in and {"user": null} to sign out.
func (s *Server) PutCurrentUser(w http.ResponseWriter, r *http.Request) {
	var req currentUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !req.User.IsSpecified() {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "user is required (use null to sign out)", map[string]any{"field": "user"})
		return
	}

	var target *domain.User
	if !req.User.IsNull() {
		u, err := req.User.Get()
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid user", nil)
			return
		}
		if strings.TrimSpace(string(u.ID)) == "" {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "user.id is required", map[string]any{"field": "user.id"})
			return
		}
		target = &u
	}

	if err := s.Records.SetCurrentUser(r.Context(), target); err != nil {
		s.Log.WithError(err).Error("write current user")
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type migrationResponse struct {
	Migrated bool `json:"migrated"`
}

func (s *Server) PostMigration(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, migrationResponse{Migrated: s.Records.ForceDataMigration(r.Context())})
}

func (s *Server) DeleteStorage(w http.ResponseWriter, r *http.Request) {
	if err := s.Records.ClearAll(r.Context()); err != nil {
		s.Log.WithError(err).Error("clear primary store")
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeBody decodes a single JSON value from the request body, writing a 422 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large", nil)
			return false
		}
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "request body is not valid JSON", nil)
		return false
	}
	if dec.More() {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "request body must hold a single JSON value", nil)
		return false
	}
	return true
}
