package diag

import (
	"go/token"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestReporter_ReportPhases(t *testing.T) {
	tests := []struct {
		name     string
		phase    Phase
		code     Code
		message  string
		filename string
		line     int
	}{
		{
			name:     "config-phase blank prefix",
			phase:    PhaseConfig,
			code:     SW001BlankSpanNamePrefix,
			message:  "spanNamePrefix is blank",
			filename: ".spanweave.yaml",
			line:     3,
		},
		{
			name:     "traverse-phase file excluded",
			phase:    PhaseTraverse,
			code:     SW100FileExcluded,
			message:  "TestController.go is not included",
			filename: "TestController.go",
			line:     1,
		},
		{
			name:     "rewrite-phase limit",
			phase:    PhaseRewrite,
			code:     SW210MethodLimitReached,
			message:  "2 methods left as is",
			filename: "user_service.go",
			line:     42,
		},
	}

	var r Reporter

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phase := r.Phase(tt.phase)
			phase.Report(tt.code, tt.message, token.Position{
				Filename: tt.filename,
				Line:     tt.line,
			})
		})
	}

	reps := r.Notices()
	if len(reps) != len(tests) {
		t.Fatalf("expected %d notices, got %d", len(tests), len(reps))
	}

	for i, rep := range reps {
		want := tests[i]
		if rep.Phase != want.phase {
			t.Errorf("[%s] phase mismatch: got %v, want %v", want.name, rep.Phase, want.phase)
		}
		if rep.Code != want.code {
			t.Errorf("[%s] code mismatch: got %v, want %v", want.name, rep.Code, want.code)
		}
		if rep.Message != want.message {
			t.Errorf("[%s] message mismatch: got %q, want %q", want.name, rep.Message, want.message)
		}
		if rep.Pos.Filename != want.filename || rep.Pos.Line != want.line {
			t.Errorf("[%s] position mismatch: got %s:%d, want %s:%d",
				want.name, rep.Pos.Filename, rep.Pos.Line, want.filename, want.line)
		}
	}
}

func TestReporter_DefaultMessage(t *testing.T) {
	r := NewReporter(nil)
	r.Phase(PhaseInject).Report(SW110EntryPointInjected, "", token.Position{})

	reps := r.Notices()
	if len(reps) != 1 {
		t.Fatalf("expected 1 notice, got %d", len(reps))
	}
	if reps[0].Message != SW110EntryPointInjected.Description() {
		t.Fatalf("unexpected message %q", reps[0].Message)
	}
}

func TestReporter_MirrorsToLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := NewReporter(zap.New(core))

	pos := token.Position{Filename: "user_service.go", Line: 10, Column: 1}
	r.Phase(PhaseRewrite).Report(SW210MethodLimitReached, "limit", pos)
	r.Phase(PhaseRewrite).Report(SW200MethodInstrumented, "instrumented", pos)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected only the warning to pass the info level, got %d entries", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Errorf("unexpected level %s", entries[0].Level)
	}
	if entries[0].Message != "limit" {
		t.Errorf("unexpected message %q", entries[0].Message)
	}
	ctx := entries[0].ContextMap()
	if ctx["code"] != SW210MethodLimitReached.String() {
		t.Errorf("unexpected code field %v", ctx["code"])
	}
	if ctx["pos"] != "user_service.go:10:1" {
		t.Errorf("unexpected pos field %v", ctx["pos"])
	}

	if r.Count(SW200MethodInstrumented) != 1 {
		t.Errorf("debug notices must still be collected")
	}
}

func TestReporter_ConcurrencySafety(t *testing.T) {
	const n = 500
	var (
		r  Reporter
		wg sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Report(Notice{
				Phase:   PhaseRewrite,
				Code:    SW200MethodInstrumented,
				Message: "parallel add",
				Pos:     token.Position{Line: i},
			})
		}(i)
	}
	wg.Wait()

	reps := r.Notices()
	if len(reps) != n {
		t.Fatalf("expected %d notices, got %d", n, len(reps))
	}
	reps[0].Message = "changed"
	reps2 := r.Notices()
	if reps2[0].Message == "changed" {
		t.Fatalf("Notices() returned shared slice, expected copy")
	}
}

func TestCodeStrings(t *testing.T) {
	if got := SW100FileExcluded.String(); got != "SW100: FileExcluded" {
		t.Errorf("unexpected %q", got)
	}
	if got := Code(999).String(); got != "code-unknown(999)" {
		t.Errorf("unexpected %q", got)
	}
	if SW210MethodLimitReached.Severity() != zapcore.WarnLevel {
		t.Errorf("limit notice must be a warning")
	}
}
