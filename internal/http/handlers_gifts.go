package http

import (
	"errors"
	"fmt"
	"net/http"

	applog "giftguardian/internal/log"
	"giftguardian/internal/services"
)

// handleGifts lists gifts narrowed by the query string filters.
func (s *Server) handleGifts(w http.ResponseWriter, r *http.Request) {
	filter, sort := ParseGiftQuery(r.URL.Query())
	listing, err := s.gifts.List(r.Context(), filter, sort, s.now())
	if err != nil {
		s.fail(w, r, err, applog.OpList)
		return
	}
	s.render(w, r, http.StatusOK, "gifts_page", "Gifts", "gifts", listing)
}

func (s *Server) handleAddGift(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.formFailed(w, r, err)
		return
	}
	in, err := parseGiftForm(r.PostForm)
	if err == nil {
		image, closeImage := formImage(r)
		defer closeImage()
		in.Image = image
		_, err = s.gifts.Create(r.Context(), in)
	}
	switch {
	case err == nil:
		s.redirect(w, r, "/gifts", FlashSuccess, "Gift added successfully!")
	case isFormError(err):
		s.redirect(w, r, "/gifts", FlashWarning, formMessage(err, "Missing required fields for gift."))
	default:
		s.fail(w, r, err, applog.OpCreate)
	}
}

func (s *Server) handleEditGiftForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	form, err := s.gifts.Form(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, applog.OpRead)
		return
	}
	s.render(w, r, http.StatusOK, "edit_gift_page", "Edit "+form.Gift.ItemName, "gifts", form)
}

func (s *Server) handleEditGift(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	if err := s.parseForm(w, r); err != nil {
		s.formFailed(w, r, err)
		return
	}
	in, err := parseGiftForm(r.PostForm)
	if err == nil {
		image, closeImage := formImage(r)
		defer closeImage()
		in.Image = image
		err = s.gifts.Update(r.Context(), id, in)
	}
	switch {
	case err == nil:
		s.redirect(w, r, "/gifts", FlashSuccess, "Gift updated.")
	case isFormError(err):
		s.redirect(w, r, fmt.Sprintf("/gifts/edit/%d", id), FlashWarning, formMessage(err, "Missing required fields for gift."))
	default:
		s.fail(w, r, err, applog.OpUpdate)
	}
}

func (s *Server) handleDeleteGift(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	if err := s.gifts.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err, applog.OpDelete)
		return
	}
	s.redirect(w, r, "/gifts", FlashSuccess, "Gift deleted.")
}

// formImage returns the optional "image" file of a multipart form and a
// func releasing it.
func formImage(r *http.Request) (*services.ImageUpload, func()) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Ignoring unreadable image upload",
				applog.FieldError, err)
		}
		return nil, func() {}
	}
	return &services.ImageUpload{Filename: header.Filename, Content: file}, func() { _ = file.Close() }
}
