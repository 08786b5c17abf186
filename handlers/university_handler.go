package handlers

import (
	"net/http"
	"strings"

	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/services"
)

type UniversityHandler struct {
	universityService services.UniversityService
}

func NewUniversityHandler(us services.UniversityService) *UniversityHandler {
	return &UniversityHandler{universityService: us}
}

func (h *UniversityHandler) ListUniversities(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	universities, err := h.universityService.SearchUniversities(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")), limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"universities": universities}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *UniversityHandler) GetUniversityByID(w http.ResponseWriter, r *http.Request) {
	universityID, err := getIDFromURL(r, "universityID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	university, err := h.universityService.GetUniversity(r.Context(), universityID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"university": university}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *UniversityHandler) CreateUniversity(w http.ResponseWriter, r *http.Request) {
	var input services.UniversityInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	university, err := h.universityService.CreateUniversity(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"university": university}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *UniversityHandler) UpdateUniversity(w http.ResponseWriter, r *http.Request) {
	universityID, err := getIDFromURL(r, "universityID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UniversityInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	university, err := h.universityService.UpdateUniversity(r.Context(), universityID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"university": university}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *UniversityHandler) DeleteUniversity(w http.ResponseWriter, r *http.Request) {
	universityID, err := getIDFromURL(r, "universityID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.universityService.DeleteUniversity(r.Context(), universityID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UniversityHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	universityID, err := getIDFromURL(r, "universityID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, contentType, err := readLogo(w, r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	university, err := h.universityService.UploadLogo(r.Context(), universityID, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"university": university}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
