package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestError_Message(t *testing.T) {
	err := New(ErrCodeInvalidManifest, "block %d has no type", 2)

	want := "INVALID_MANIFEST: block 2 has no type"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := stderrors.New("no such file")
	err := Wrap(ErrCodeFileNotFound, cause, "read manifest %s", "flow.toml")

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if GetCode(err) != ErrCodeFileNotFound {
		t.Errorf("GetCode() = %q, want %q", GetCode(err), ErrCodeFileNotFound)
	}
}

func TestIs_MatchesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("load: %w", New(ErrCodeInvalidFormat, "bad format"))

	if !Is(err, ErrCodeInvalidFormat) {
		t.Error("Is(wrapped, ErrCodeInvalidFormat) = false, want true")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is(wrapped, ErrCodeInternal) = true, want false")
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidFlow, "entry missing")); got != "entry missing" {
		t.Errorf("UserMessage(*Error) = %q, want %q", got, "entry missing")
	}
	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage(plain) = %q, want %q", got, "plain failure")
	}
}
