/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rpmurphy2/pickleball-round-robin/roster"
	"github.com/rpmurphy2/pickleball-round-robin/roundrobin"
)

type envelope map[string]any

const maxBodyBytes = 1_048_576

var (
	errSessionNotFound = errors.New("session not found")
	errUnauthorized    = errors.New("a valid edit token is required")
	errBadPassphrase   = errors.New("passphrase does not match")
)

func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)",
				syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q",
					unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)",
				unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			field := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", field)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBodyBytes)
		default:
			return err
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, status int,
	message any) {

	if err := writeJSON(w, status, envelope{"error": message}); err != nil {
		s.log.Error("failed to write error response", slog.Any("err", err),
			slog.String("path", r.URL.Path))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (s *Server) serverErrorResponse(w http.ResponseWriter, r *http.Request,
	err error) {

	s.log.Error("internal error", slog.Any("err", err),
		slog.String("method", r.Method), slog.String("path", r.URL.Path))
	s.errorResponse(w, r, http.StatusInternalServerError,
		"the server encountered a problem and could not process your request")
}

func (s *Server) badRequestResponse(w http.ResponseWriter, r *http.Request,
	err error) {

	s.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (s *Server) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	s.errorResponse(w, r, http.StatusNotFound,
		"the requested resource could not be found")
}

// mapServiceErrorToHTTP picks the status for an error returned by the
// roster or the tournament session.
func (s *Server) mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request,
	err error) {

	switch {
	case errors.Is(err, errSessionNotFound),
		errors.Is(err, roster.ErrNotFound),
		errors.Is(err, roundrobin.ErrMatchNotFound):
		s.notFoundResponse(w, r)

	case errors.Is(err, errUnauthorized),
		errors.Is(err, errBadPassphrase):
		s.errorResponse(w, r, http.StatusUnauthorized, err.Error())

	// malformed input
	case errors.Is(err, roster.ErrEmptyName),
		errors.Is(err, roster.ErrMalformedQuickAdd),
		errors.Is(err, roundrobin.ErrInvalidScore),
		errors.Is(err, roundrobin.ErrInvalidCourts),
		errors.Is(err, roundrobin.ErrUnknownMode),
		errors.Is(err, roundrobin.ErrUnknownRole),
		errors.Is(err, roundrobin.ErrSelfMatchup):
		s.badRequestResponse(w, r, err)

	// locks and pins that clash with each other
	case errors.Is(err, roundrobin.ErrDoubleBooked),
		errors.Is(err, roundrobin.ErrDuplicateMatch),
		errors.Is(err, roundrobin.ErrRoundFull),
		errors.Is(err, roundrobin.ErrByeTaken),
		errors.Is(err, roundrobin.ErrByeConflict),
		errors.Is(err, roundrobin.ErrPinConflict),
		errors.Is(err, roundrobin.ErrNotGenerated):
		s.errorResponse(w, r, http.StatusConflict, err.Error())

	case errors.Is(err, roundrobin.ErrSearchBudgetExceeded):
		s.errorResponse(w, r, http.StatusServiceUnavailable, err.Error())

	// well formed but not schedulable
	case errors.Is(err, roundrobin.ErrNoSchedule),
		errors.Is(err, roundrobin.ErrTooFewUnits),
		errors.Is(err, roundrobin.ErrTooFewPlayers),
		errors.Is(err, roundrobin.ErrUnknownUnit),
		errors.Is(err, roundrobin.ErrRoundOutOfRange),
		errors.Is(err, roundrobin.ErrNoByes),
		errors.Is(err, roundrobin.ErrModeUnsupported),
		errors.Is(err, roundrobin.ErrScoringDisabled):
		s.errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())

	default:
		s.serverErrorResponse(w, r, err)
	}
}
