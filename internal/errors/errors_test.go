package errors

import (
	"fmt"
	"testing"
)

func TestQuipError_Error(t *testing.T) {
	err := &QuipError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "node not found",
	}

	expected := "NOT_FOUND: node not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("buffer is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "buffer is required" {
		t.Errorf("Message = %q, want %q", err.Message, "buffer is required")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("Signatures/work")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["identifier"] != "Signatures/work" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "Signatures/work")
	}
}

func TestNewNoMatch(t *testing.T) {
	err := NewNoMatch("nothing triggered")

	if err.Code != ErrNoMatch {
		t.Errorf("Code = %q, want %q", err.Code, ErrNoMatch)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
}

func TestNewNameAlreadyExists(t *testing.T) {
	err := NewNameAlreadyExists("root", "brb")

	if err.Code != ErrNameAlreadyExists {
		t.Errorf("Code = %q, want %q", err.Code, ErrNameAlreadyExists)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
	if err.Details["folder"] != "root" {
		t.Errorf("Details[folder] = %v, want %q", err.Details["folder"], "root")
	}
	if err.Details["name"] != "brb" {
		t.Errorf("Details[name] = %v, want %q", err.Details["name"], "brb")
	}
}

func TestNewInvalidPattern(t *testing.T) {
	err := NewInvalidPattern("[a-", fmt.Errorf("missing closing ]"))

	if err.Code != ErrInvalidPattern {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidPattern)
	}
	if err.Status != 422 {
		t.Errorf("Status = %d, want 422", err.Status)
	}
	if err.Details["pattern"] != "[a-" {
		t.Errorf("Details[pattern] = %v, want %q", err.Details["pattern"], "[a-")
	}
}

func TestWithDetail(t *testing.T) {
	err := NewInvalidRequest("bad").WithDetail("path", "root/x")
	if err.Details["path"] != "root/x" {
		t.Errorf("Details[path] = %v, want %q", err.Details["path"], "root/x")
	}
}

func TestNewInternal(t *testing.T) {
	t.Run("with error", func(t *testing.T) {
		originalErr := fmt.Errorf("database connection failed")
		err := NewInternal(originalErr)

		if err.Code != ErrInternal {
			t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
		}
		if err.Status != 500 {
			t.Errorf("Status = %d, want 500", err.Status)
		}
		// Message should be generic (not leak internal details)
		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		if err.Details["internal_error"] != "database connection failed" {
			t.Errorf("Details[internal_error] = %q, want %q", err.Details["internal_error"], "database connection failed")
		}
	})

	t.Run("with nil", func(t *testing.T) {
		err := NewInternal(nil)

		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		if err.Details == nil {
			t.Error("Details should not be nil")
		}
	})
}

func TestIs(t *testing.T) {
	t.Run("matching code", func(t *testing.T) {
		err := NewNotFound("test")
		if !Is(err, ErrNotFound) {
			t.Error("Is() = false, want true")
		}
	})

	t.Run("non-matching code", func(t *testing.T) {
		err := NewNotFound("test")
		if Is(err, ErrInvalidPattern) {
			t.Error("Is() = true, want false")
		}
	})

	t.Run("non-QuipError", func(t *testing.T) {
		err := fmt.Errorf("plain error")
		if Is(err, ErrNotFound) {
			t.Error("Is() = true, want false for non-QuipError")
		}
	})

	t.Run("wrapped QuipError", func(t *testing.T) {
		inner := NewInvalidPattern("(", nil)
		wrapped := fmt.Errorf("folders[0]: %w", inner)
		if !Is(wrapped, ErrInvalidPattern) {
			t.Error("Is() = false, want true for wrapped QuipError")
		}
		if Is(wrapped, ErrNotFound) {
			t.Error("Is() = true, want false for wrong code on wrapped QuipError")
		}
	})
}
