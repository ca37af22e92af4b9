package http

import (
	"fmt"
	"net/http"

	applog "giftguardian/internal/log"
)

func (s *Server) handlePeople(w http.ResponseWriter, r *http.Request) {
	listing, err := s.people.List(r.Context())
	if err != nil {
		s.fail(w, r, err, applog.OpList)
		return
	}
	s.render(w, r, http.StatusOK, "people_page", "People", "people", listing)
}

func (s *Server) handleAddPerson(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.formFailed(w, r, err)
		return
	}
	in, err := parsePersonForm(r.PostForm)
	if err == nil {
		if _, err = s.people.Create(r.Context(), in); err == nil {
			s.redirect(w, r, "/people", FlashSuccess, fmt.Sprintf("Added %s successfully!", in.Name))
			return
		}
	}
	if isFormError(err) {
		s.redirect(w, r, "/people", FlashWarning, formMessage(err, "Missing required fields."))
		return
	}
	s.fail(w, r, err, applog.OpCreate)
}

func (s *Server) handleEditPersonForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	form, err := s.people.Form(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, applog.OpRead)
		return
	}
	s.render(w, r, http.StatusOK, "edit_person_page", "Edit "+form.Person.Name, "people", form)
}

func (s *Server) handleEditPerson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	if err := s.parseForm(w, r); err != nil {
		s.formFailed(w, r, err)
		return
	}
	in, err := parsePersonForm(r.PostForm)
	if err == nil {
		if err = s.people.Update(r.Context(), id, in); err == nil {
			s.redirect(w, r, "/people", FlashSuccess, "Person updated.")
			return
		}
	}
	if isFormError(err) {
		s.redirect(w, r, fmt.Sprintf("/people/edit/%d", id), FlashWarning, formMessage(err, "Missing required fields."))
		return
	}
	s.fail(w, r, err, applog.OpUpdate)
}

func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	if err := s.people.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err, applog.OpDelete)
		return
	}
	s.redirect(w, r, "/people", FlashSuccess, "Person deleted.")
}

func (s *Server) handleViewPerson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	profile, err := s.people.Profile(r.Context(), id, s.now())
	if err != nil {
		s.fail(w, r, err, applog.OpRead)
		return
	}
	s.render(w, r, http.StatusOK, "person_page", profile.Person.Name, "people", profile)
}

func (s *Server) handleAddPersonOccasion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	if err := s.parseForm(w, r); err != nil {
		s.formFailed(w, r, err)
		return
	}
	profile := fmt.Sprintf("/people/view/%d", id)

	in, err := parseOccasionDateForm(r.PostForm)
	if err == nil {
		if _, err = s.people.AddOccasion(r.Context(), id, in); err == nil {
			s.redirect(w, r, profile, FlashSuccess, "Occasion date added.")
			return
		}
	}
	if isFormError(err) {
		s.redirect(w, r, profile, FlashWarning, formMessage(err, "Missing required fields."))
		return
	}
	s.fail(w, r, err, applog.OpCreate)
}

func (s *Server) handleDeletePersonOccasion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	personID, err := s.people.DeleteOccasion(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, applog.OpDelete)
		return
	}
	s.redirect(w, r, fmt.Sprintf("/people/view/%d", personID), FlashSuccess, "Occasion date removed.")
}
