package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrEmptyReply_IsTransportClass(t *testing.T) {
	if !errors.Is(ErrEmptyReply, ErrTransport) {
		t.Error("ErrEmptyReply should match ErrTransport")
	}

	wrapped := fmt.Errorf("classify failed: %w", ErrEmptyReply)
	if !errors.Is(wrapped, ErrTransport) {
		t.Error("wrapped ErrEmptyReply should match ErrTransport")
	}
	if !errors.Is(wrapped, ErrEmptyReply) {
		t.Error("wrapped ErrEmptyReply should still match ErrEmptyReply")
	}
}

func TestErrTransport_IsNotEmptyReply(t *testing.T) {
	if errors.Is(ErrTransport, ErrEmptyReply) {
		t.Error("a plain transport failure should not match ErrEmptyReply")
	}
}
