package http

import (
	"errors"
	"net/http"

	applog "giftguardian/internal/log"
	"giftguardian/internal/services"
)

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.Load(r.Context())
	if err != nil {
		s.fail(w, r, err, applog.OpList)
		return
	}
	s.render(w, r, http.StatusOK, "settings_page", "Settings", "settings", settings)
}

func (s *Server) handleAddRelation(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.formFailed(w, r, err)
		return
	}
	name, err := parseName(r.PostForm)
	if err == nil {
		_, err = s.settings.AddRelation(r.Context(), name)
	}
	s.settingsAdded(w, r, err, "Relation added successfully!", "Relation already exists!")
}

func (s *Server) handleDeleteRelation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	if err := s.settings.DeleteRelation(r.Context(), id); err != nil {
		s.fail(w, r, err, applog.OpDelete)
		return
	}
	s.redirect(w, r, "/settings", FlashSuccess, "Relation deleted.")
}

func (s *Server) handleAddOccasion(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.formFailed(w, r, err)
		return
	}
	name, err := parseName(r.PostForm)
	if err == nil {
		_, err = s.settings.AddOccasion(r.Context(), name)
	}
	s.settingsAdded(w, r, err, "Occasion added successfully!", "Occasion already exists!")
}

func (s *Server) handleDeleteOccasion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	if err := s.settings.DeleteOccasion(r.Context(), id); err != nil {
		s.fail(w, r, err, applog.OpDelete)
		return
	}
	s.redirect(w, r, "/settings", FlashSuccess, "Occasion deleted.")
}

// settingsAdded finishes a relation or occasion submission. An empty name
// redirects without a message.
func (s *Server) settingsAdded(w http.ResponseWriter, r *http.Request, err error, added, duplicate string) {
	switch {
	case err == nil:
		s.redirect(w, r, "/settings", FlashSuccess, added)
	case errors.Is(err, errMissingFields):
		s.redirect(w, r, "/settings", "", "")
	case errors.Is(err, services.ErrDuplicate):
		s.redirect(w, r, "/settings", FlashWarning, duplicate)
	case isFormError(err):
		s.redirect(w, r, "/settings", FlashWarning, formMessage(err, ""))
	default:
		s.fail(w, r, err, applog.OpCreate)
	}
}
