package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/ryder-manager/services"
)

type ReferenceHandler struct {
	referenceService services.ReferenceService
}

func NewReferenceHandler(rs services.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: rs}
}

// ListCountriesHandler handles GET /countries.
func (h *ReferenceHandler) ListCountriesHandler(w http.ResponseWriter, r *http.Request) {
	countries, err := h.referenceService.ListCountries(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"countries": countries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetCountryHandler handles GET /countries/{code}.
func (h *ReferenceHandler) GetCountryHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	country, err := h.referenceService.GetCountry(r.Context(), code)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"country": country}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListCoursesHandler handles GET /courses.
func (h *ReferenceHandler) ListCoursesHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	courses, err := h.referenceService.ListCourses(r.Context(), limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"courses": courses}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetCourseHandler handles GET /courses/{courseID}.
func (h *ReferenceHandler) GetCourseHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "courseID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	course, err := h.referenceService.GetCourse(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"course": course}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
