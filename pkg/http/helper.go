package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"propshoot/pkg/config"
	apperrors "propshoot/pkg/errors"
	"strconv"
	"time"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = v
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// DecodeJSON decodes the request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.InvalidInput("Request body cannot be empty")
		}
		return apperrors.InvalidInput("Invalid request body")
	}
	return nil
}

// QueryDate reads a required YYYY-MM-DD query parameter.
func QueryDate(r *http.Request, name string) (string, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return "", apperrors.InvalidInput("missing " + name + " parameter")
	}
	if _, err := time.Parse(config.DateLayout, value); err != nil {
		return "", apperrors.InvalidInput("invalid " + name + " parameter, expected YYYY-MM-DD")
	}
	return value, nil
}

// QueryMonth reads a required YYYY-MM query parameter.
func QueryMonth(r *http.Request, name string) (time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return time.Time{}, apperrors.InvalidInput("missing " + name + " parameter")
	}
	month, err := time.Parse(config.MonthLayout, value)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("invalid " + name + " parameter, expected YYYY-MM")
	}
	return month, nil
}
