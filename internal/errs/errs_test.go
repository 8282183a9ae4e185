package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestKinds(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		kind   error
		status int
		label  string
	}{
		{"auth", Auth("login", "bad token"), ErrAuth, http.StatusUnauthorized, "auth"},
		{"not found", NotFound("update card", "no card abc"), ErrNotFound, http.StatusNotFound, "not_found"},
		{"conflict", Conflict("write data/config.json", "sha mismatch"), ErrConflict, http.StatusConflict, "conflict"},
		{"validation", Validation("create card", "title required"), ErrValidation, http.StatusBadRequest, "validation"},
		{"transport", Transport("read data/tools.json", errors.New("connection refused")), ErrTransport, http.StatusBadGateway, "transport"},
		{"plain", errors.New("boom"), nil, http.StatusInternalServerError, "internal"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.kind != nil && !errors.Is(tc.err, tc.kind) {
				t.Errorf("Expected %v to be %v", tc.err, tc.kind)
			}
			if got := HTTPStatus(tc.err); got != tc.status {
				t.Errorf("Expected status %d, got %d", tc.status, got)
			}
			if got := Kind(tc.err); got != tc.label {
				t.Errorf("Expected kind %q, got %q", tc.label, got)
			}
		})
	}
}

func TestFromStatus(t *testing.T) {
	testCases := []struct {
		status int
		kind   error
	}{
		{http.StatusUnauthorized, ErrAuth},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusPreconditionFailed, ErrConflict},
		{http.StatusUnprocessableEntity, ErrTransport},
		{http.StatusInternalServerError, ErrTransport},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprint(tc.status), func(t *testing.T) {
			err := FromStatus("op", tc.status, "")
			if !errors.Is(err, tc.kind) {
				t.Errorf("Expected kind %v for status %d, got %v", tc.kind, tc.status, err)
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatal("Expected *Error in chain")
			}
			if e.Status != tc.status {
				t.Errorf("Expected status %d recorded, got %d", tc.status, e.Status)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := FromStatus("write data/blogs.json", http.StatusConflict, "data/blogs.json does not match abc")
	if !strings.Contains(err.Error(), "does not match") {
		t.Errorf("Expected remote message to surface, got %q", err.Error())
	}
	if !strings.HasPrefix(err.Error(), "write data/blogs.json: ") {
		t.Errorf("Expected op prefix, got %q", err.Error())
	}

	cause := errors.New("dial tcp: timeout")
	err = Transport("read data/config.json", cause)
	if !errors.Is(err, cause) {
		t.Error("Expected cause to stay reachable through errors.Is")
	}
	if !strings.Contains(err.Error(), "dial tcp") {
		t.Errorf("Expected cause message, got %q", err.Error())
	}
}
