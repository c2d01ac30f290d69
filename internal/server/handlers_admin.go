package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/portfolio/internal/content"
	"github.com/jonathan/portfolio/internal/datasync"
	"github.com/jonathan/portfolio/internal/richtext"
	"github.com/jonathan/portfolio/internal/server/middleware"
	"github.com/jonathan/portfolio/internal/settings"
)

const (
	summaryRunes         = 160
	defaultNotifications = 20
)

// LoginRequest represents the request body for admin login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the response for a successful login
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Email     string    `json:"email"`
}

// MutationResponse is the body returned by create, update and delete.
type MutationResponse struct {
	Message string         `json:"message"`
	ID      string         `json:"id,omitempty"`
	Item    content.Record `json:"item,omitempty"`
}

// StatusResponse describes the state of the content cache.
type StatusResponse struct {
	Loading bool                       `json:"loading"`
	Counts  map[content.Collection]int `json:"counts"`
	Admin   string                     `json:"admin"`
}

// RefreshResponse is the outcome of a bulk reload.
type RefreshResponse struct {
	OK     bool                 `json:"ok"`
	Report datasync.LoadReport  `json:"report"`
	Failed []content.Collection `json:"failed,omitempty"`
}

// handleLogin exchanges the admin credentials for a session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errResponse(w, r, err)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		s.errResponse(w, r, &ErrValidation{Field: "email", Message: "email and password are required"})
		return
	}

	if !s.auth.VerifyAdmin(s.passwordConfig, req.Email, req.Password) {
		s.logger.Warn("admin login failed", "client", s.extractClientID(r))
		s.errResponse(w, r, &ErrInvalidCredentials{})
		return
	}

	token, expiresAt, err := s.jwtService.GenerateToken(s.auth.AdminEmail)
	if err != nil {
		s.errResponse(w, r, err)
		return
	}
	s.logger.Info("admin logged in", "client", s.extractClientID(r))
	s.jsonResponse(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: expiresAt, Email: s.auth.AdminEmail})
}

// handleStatus reports whether the cache is loading and how many records
// each collection holds.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	subject, _ := middleware.Subject(r)
	s.jsonResponse(w, http.StatusOK, StatusResponse{
		Loading: s.cache.Loading(),
		Counts:  s.cache.Counts(),
		Admin:   subject,
	})
}

// handleRefresh reloads every collection from the store.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	report := s.engine.Refresh(r.Context())
	s.jsonResponse(w, http.StatusOK, RefreshResponse{OK: report.OK(), Report: report, Failed: report.Failed()})
}

// handleNotifications returns the most recent sync notifications.
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", defaultNotifications, 0)
	s.jsonResponse(w, http.StatusOK, map[string]any{"notifications": s.feed.Recent(limit)})
}

// handleCreate adds a record to a collection.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	rec, err := s.readRecord(w, r, "")
	if err != nil {
		s.errResponse(w, r, err)
		return
	}
	s.mutationResponse(w, r, s.engine.AddItem(r.Context(), rec), http.StatusCreated)
}

// handleUpdate replaces a record. The id in the path wins over any id in the
// body.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	rec, err := s.readRecord(w, r, r.PathValue("id"))
	if err != nil {
		s.errResponse(w, r, err)
		return
	}
	s.mutationResponse(w, r, s.engine.UpdateItem(r.Context(), rec), http.StatusOK)
}

// handleDelete removes a record.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	col, err := content.ParseCollection(r.PathValue("collection"))
	if err != nil {
		s.errResponse(w, r, err)
		return
	}
	s.mutationResponse(w, r, s.engine.DeleteItem(r.Context(), col, r.PathValue("id")), http.StatusOK)
}

func (s *Server) mutationResponse(w http.ResponseWriter, r *http.Request, res datasync.Result, status int) {
	if !res.OK() {
		if code := HTTPStatus(res.Err); code >= http.StatusInternalServerError {
			s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", res.Err)
			s.errorResponse(w, code, res.Message())
			return
		}
		s.errResponse(w, r, res.Err)
		return
	}
	s.jsonResponse(w, status, MutationResponse{Message: res.Message(), ID: res.ID, Item: res.Record})
}

// readRecord decodes, completes and validates the record in the request body.
func (s *Server) readRecord(w http.ResponseWriter, r *http.Request, id string) (content.Record, error) {
	col, err := content.ParseCollection(r.PathValue("collection"))
	if err != nil {
		return nil, err
	}
	body, err := io.ReadAll(s.body(w, r))
	if err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}

	rec, err := content.Decode(col, body)
	if err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	if id != "" {
		rec = content.WithID(rec, id)
	}
	if rec, err = completePost(rec); err != nil {
		return nil, &ErrValidation{Field: "content", Message: err.Error()}
	}
	if err := content.Validate(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// completePost fills a blog post's read time and summary from its content
// when the editor left them empty.
func completePost(rec content.Record) (content.Record, error) {
	post, ok := rec.(content.BlogPost)
	if !ok || post.Content == "" {
		return rec, nil
	}
	if post.ReadTime == 0 {
		minutes, err := richtext.ReadTime(post.Content)
		if err != nil {
			return nil, fmt.Errorf("read time: %w", err)
		}
		post.ReadTime = minutes
	}
	if strings.TrimSpace(post.Summary) == "" {
		summary, err := richtext.Excerpt(post.Content, summaryRunes)
		if err != nil {
			return nil, fmt.Errorf("summary: %w", err)
		}
		post.Summary = summary
	}
	return post, nil
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.settings.Settings())
}

// handlePutSettings replaces the website settings.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(s.body(w, r))
	if err != nil {
		s.errResponse(w, r, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}
	v, err := settings.DecodeSettings(body)
	if err == nil {
		err = s.settings.SaveSettings(v)
	}
	if err != nil {
		s.errResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, v)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.settings.Profile())
}

// handlePutProfile replaces the admin profile.
func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(s.body(w, r))
	if err != nil {
		s.errResponse(w, r, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}
	v, err := settings.DecodeProfile(body)
	if err == nil {
		err = s.settings.SaveProfile(v)
	}
	if err != nil {
		s.errResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, v)
}
