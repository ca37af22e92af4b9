// Package http provides the HTML server and its handlers.
//
// This file turns query strings, path values and form submissions into the
// inputs of the services. Read-side parameters fail open: anything malformed
// is treated as absent. Write-side forms fail closed with errMissingFields or
// errMalformedInput.
package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"giftguardian/internal/core"
	"giftguardian/internal/services"
)

// allPeople clears the person restriction of a gift query.
const allPeople = "all"

var (
	errMissingFields  = errors.New("missing required fields")
	errMalformedInput = errors.New("invalid input data")
)

// pathID reads the {id} path value. Zero, negative or non-numeric ids
// report false.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ParseGiftQuery reads the gift list filter and sort from a query string.
//
// person_id may repeat; the value "all" drops the person restriction and
// non-numeric values are skipped. occasion_id and year are ignored when not
// numeric, status when not a known status. search is trimmed. sort_by falls
// back to the default order.
func ParseGiftQuery(q url.Values) (core.GiftFilter, core.GiftSort) {
	var f core.GiftFilter

	for _, v := range q["person_id"] {
		v = strings.TrimSpace(v)
		if v == allPeople {
			f.PersonIDs = nil
			break
		}
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.PersonIDs = append(f.PersonIDs, id)
		}
	}

	if v := strings.TrimSpace(q.Get("occasion_id")); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.OccasionID = &id
		}
	}
	f.Year = queryInt(q, "year")
	if st, err := core.ParseGiftStatus(q.Get("status")); err == nil {
		f.Status = st
	}
	f.Search = strings.TrimSpace(q.Get("search"))

	return f, core.ParseGiftSort(q.Get("sort_by"))
}

// ParseStatsYear reads the optional stats year; anything non-numeric means
// all years.
func ParseStatsYear(q url.Values) *int {
	return queryInt(q, "year")
}

func queryInt(q url.Values, key string) *int {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

// parsePersonForm requires name, month and day; relation and year are
// optional.
func parsePersonForm(form url.Values) (services.PersonInput, error) {
	name := sanitizeInput(form.Get("name"))
	month := strings.TrimSpace(form.Get("month"))
	day := strings.TrimSpace(form.Get("day"))
	if name == "" || month == "" || day == "" {
		return services.PersonInput{}, errMissingFields
	}

	in := services.PersonInput{Name: name}
	var err error
	if in.Month, err = strconv.Atoi(month); err != nil {
		return services.PersonInput{}, errMalformedInput
	}
	if in.Day, err = strconv.Atoi(day); err != nil {
		return services.PersonInput{}, errMalformedInput
	}
	if in.RelationID, err = optionalID(form.Get("relation_id")); err != nil {
		return services.PersonInput{}, err
	}
	if in.Year, err = optionalInt(form.Get("year")); err != nil {
		return services.PersonInput{}, err
	}
	return in, nil
}

// parseOccasionDateForm requires occasion_id, month and day.
func parseOccasionDateForm(form url.Values) (services.OccasionDateInput, error) {
	occasion := strings.TrimSpace(form.Get("occasion_id"))
	month := strings.TrimSpace(form.Get("month"))
	day := strings.TrimSpace(form.Get("day"))
	if occasion == "" || month == "" || day == "" {
		return services.OccasionDateInput{}, errMissingFields
	}

	var (
		in  services.OccasionDateInput
		err error
	)
	if in.OccasionID, err = strconv.ParseInt(occasion, 10, 64); err != nil {
		return services.OccasionDateInput{}, errMalformedInput
	}
	if in.Month, err = strconv.Atoi(month); err != nil {
		return services.OccasionDateInput{}, errMalformedInput
	}
	if in.Day, err = strconv.Atoi(day); err != nil {
		return services.OccasionDateInput{}, errMalformedInput
	}
	if in.Year, err = optionalInt(form.Get("year")); err != nil {
		return services.OccasionDateInput{}, err
	}
	return in, nil
}

// parseGiftForm requires item_name, person_id and status. The image, if
// any, is attached by the handler.
func parseGiftForm(form url.Values) (services.GiftInput, error) {
	item := sanitizeInput(form.Get("item_name"))
	person := strings.TrimSpace(form.Get("person_id"))
	status := strings.TrimSpace(form.Get("status"))
	if item == "" || person == "" || status == "" {
		return services.GiftInput{}, errMissingFields
	}

	in := services.GiftInput{ItemName: item, Status: core.GiftStatus(status)}
	var err error
	if in.PersonID, err = strconv.ParseInt(person, 10, 64); err != nil {
		return services.GiftInput{}, errMalformedInput
	}
	if in.OccasionID, err = optionalID(form.Get("occasion_id")); err != nil {
		return services.GiftInput{}, err
	}
	if in.Year, err = optionalInt(form.Get("year")); err != nil {
		return services.GiftInput{}, err
	}
	if in.Price, err = core.ParsePrice(form.Get("price")); err != nil {
		return services.GiftInput{}, errMalformedInput
	}
	return in, nil
}

// parseName reads the name of a relation or occasion.
func parseName(form url.Values) (string, error) {
	name := sanitizeInput(form.Get("name"))
	if name == "" {
		return "", errMissingFields
	}
	return name, nil
}

func optionalInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, errMalformedInput
	}
	return &n, nil
}

func optionalID(s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, errMalformedInput
	}
	return &n, nil
}
