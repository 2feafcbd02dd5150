package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-l10nfallback/pkg/interfaces"
)

type testMessage struct {
	Table string
}

func (testMessage) Type() string { return "l10n.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "l10n.test.invalid" }

func (invalidMessage) Validate() error {
	return validationError()
}

func validationError() error {
	return errors.New("invalid")
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected wrapped execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !goerrors.HasCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category to propagate, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
	var typed *goerrors.Error
	if !errors.As(err, &typed) || typed.TextCode != TextCodeTimeout {
		t.Fatalf("expected %s text code, got %v", TextCodeTimeout, err)
	}
}

type fieldLogger struct {
	fields   map[string]any
	messages *[]string
}

func (l *fieldLogger) record(msg string)                             { *l.messages = append(*l.messages, msg) }
func (l *fieldLogger) Trace(msg string, _ ...any)                    { l.record(msg) }
func (l *fieldLogger) Debug(msg string, _ ...any)                    { l.record(msg) }
func (l *fieldLogger) Info(msg string, _ ...any)                     { l.record(msg) }
func (l *fieldLogger) Warn(msg string, _ ...any)                     { l.record(msg) }
func (l *fieldLogger) Error(msg string, _ ...any)                    { l.record(msg) }
func (l *fieldLogger) Fatal(msg string, _ ...any)                    { l.record(msg) }
func (l *fieldLogger) WithContext(context.Context) interfaces.Logger { return l }

func (l *fieldLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := map[string]any{}
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &fieldLogger{fields: merged, messages: l.messages}
}

func TestHandlerLogsMessageFields(t *testing.T) {
	var captured *fieldLogger
	root := &fieldLogger{messages: &[]string{}}
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return nil
	},
		WithLogger[testMessage](loggerFunc(root, &captured)),
		WithOperation[testMessage]("allowlist.configure"),
		WithMessageFields(func(msg testMessage) map[string]any {
			return map[string]any{"table": msg.Table}
		}),
	)

	if err := h.Execute(context.Background(), testMessage{Table: "tx_news"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if captured == nil {
		t.Fatal("expected handler to derive a logger with fields")
	}
	if captured.fields["table"] != "tx_news" || captured.fields["operation"] != "allowlist.configure" || captured.fields["command"] != "l10n.test.message" {
		t.Fatalf("unexpected fields %v", captured.fields)
	}
	want := []string{"command.execute.start", "command.execute.success"}
	if got := *root.messages; len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

type capturingRoot struct {
	*fieldLogger
	out **fieldLogger
}

func (c capturingRoot) WithFields(fields map[string]any) interfaces.Logger {
	derived := c.fieldLogger.WithFields(fields).(*fieldLogger)
	*c.out = derived
	return derived
}

func loggerFunc(root *fieldLogger, out **fieldLogger) interfaces.Logger {
	return capturingRoot{fieldLogger: root, out: out}
}
