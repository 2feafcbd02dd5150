package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-l10nfallback/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
	messages []string
}

func (r *recordingLogger) Trace(msg string, _ ...any) { r.messages = append(r.messages, msg) }
func (r *recordingLogger) Debug(msg string, _ ...any) { r.messages = append(r.messages, msg) }
func (r *recordingLogger) Info(msg string, _ ...any)  { r.messages = append(r.messages, msg) }
func (r *recordingLogger) Warn(msg string, _ ...any)  { r.messages = append(r.messages, msg) }
func (r *recordingLogger) Error(msg string, _ ...any) { r.messages = append(r.messages, msg) }
func (r *recordingLogger) Fatal(msg string, _ ...any) { r.messages = append(r.messages, msg) }

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "l10n.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger = logger.WithFields(map[string]any{"foo": "bar"})
	logger.Debug("noop")
}

func TestModuleLoggerUsesProviderAndAnnotatesFields(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	logger := ModuleLogger(provider, predicateModule)
	logger.Info("with provider")

	if len(provider.requested) != 1 || provider.requested[0] != predicateModule {
		t.Fatalf("expected module %s, got %v", predicateModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != predicateModule {
		t.Fatalf("expected module field %s, got %v", predicateModule, rec.fields)
	}
	if len(rec.messages) != 1 || rec.messages[0] != "with provider" {
		t.Fatalf("expected message to reach provider logger, got %v", rec.messages)
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	provider := &stubProvider{logger: &recordingLogger{}}
	_ = ModuleLogger(provider, "  ")
	if len(provider.requested) != 1 || provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
}

func TestNamedModuleLoggers(t *testing.T) {
	cases := map[string]func(interfaces.LoggerProvider) interfaces.Logger{
		predicateModule: PredicateLogger,
		allowListModule: AllowListLogger,
		queryModule:     QueryLogger,
		commandsModule + ".allowlist": func(p interfaces.LoggerProvider) interfaces.Logger {
			return CommandLogger(p, "allowlist")
		},
		commandsModule: func(p interfaces.LoggerProvider) interfaces.Logger {
			return CommandLogger(p, "")
		},
	}
	for want, fn := range cases {
		provider := &stubProvider{logger: &recordingLogger{}}
		_ = fn(provider)
		if len(provider.requested) == 0 || provider.requested[0] != want {
			t.Fatalf("expected %s request, got %v", want, provider.requested)
		}
	}
}

func TestWithFieldsCopiesInput(t *testing.T) {
	rec := &recordingLogger{}
	fields := map[string]any{"table": "pages"}
	_ = WithFields(rec, fields)
	fields["table"] = "tx_news"

	if rec.fields[0]["table"] != "pages" {
		t.Fatalf("expected fields to be copied, got %v", rec.fields[0])
	}
	if got := WithFields(rec, nil); got != rec {
		t.Fatal("expected empty fields to return the same logger")
	}
}
