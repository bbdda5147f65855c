package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// APIErrorDetail is a single error entry in an admin API error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIErrorResponse is the error envelope returned by the admin API. The
// public read endpoints keep the simpler {"error": ...} shape.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes an admin API error envelope with the given HTTP
// status, machine-readable code, and human-readable detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	resp := APIErrorResponse{
		Errors: []APIErrorDetail{{
			Code:   code,
			Status: strconv.Itoa(httpStatus),
			Detail: detail,
		}},
	}

	_ = json.NewEncoder(w).Encode(resp)
}
