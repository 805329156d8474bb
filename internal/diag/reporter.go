package diag

import (
	"fmt"
	"go/token"
	"sync"

	"go.uber.org/zap"
)

// Reporter collects notices and mirrors them into a logger.
type Reporter struct {
	mu      sync.Mutex
	log     *zap.Logger
	notices []Notice
}

// Notice represents a single diagnostic entry.
type Notice struct {
	Phase   Phase
	Code    Code
	Pos     token.Position
	Message string
}

// Phase marks the stage where a notice was generated.
type Phase int

const (
	phaseInvalid  Phase = iota
	PhaseConfig         // configuration resolution
	PhaseTraverse       // file and method selection
	PhaseRewrite        // method body rewriting
	PhaseInject         // entry point injection
)

func (p Phase) String() string {
	switch p {
	case PhaseConfig:
		return "config"
	case PhaseTraverse:
		return "traverse"
	case PhaseRewrite:
		return "rewrite"
	case PhaseInject:
		return "inject"
	default:
		return fmt.Sprintf("unknown-phase(%d)", p)
	}
}

// NewReporter creates a reporter mirroring notices into log. A nil log
// disables mirroring.
func NewReporter(log *zap.Logger) *Reporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reporter{log: log}
}

// PhaseReporter binds a Reporter to a fixed phase.
type PhaseReporter struct {
	parent *Reporter
	phase  Phase
}

// Phase returns a reporter that sets the given phase for every notice.
func (r *Reporter) Phase(p Phase) *PhaseReporter {
	return &PhaseReporter{parent: r, phase: p}
}

// Report adds a new notice and logs it.
func (r *Reporter) Report(n Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	log := r.log
	r.mu.Unlock()

	if log == nil {
		return
	}
	if ce := log.Check(n.Code.Severity(), n.Message); ce != nil {
		fields := []zap.Field{
			zap.Stringer("code", n.Code),
			zap.Stringer("phase", n.Phase),
		}
		if n.Pos.IsValid() || n.Pos.Filename != "" {
			fields = append(fields, zap.String("pos", n.Pos.String()))
		}
		ce.Write(fields...)
	}
}

// Report records a notice under the bound phase. An empty message falls back
// to the code description.
func (pr *PhaseReporter) Report(code Code, message string, pos token.Position) {
	if message == "" {
		message = code.Description()
	}
	pr.parent.Report(Notice{
		Phase:   pr.phase,
		Code:    code,
		Message: message,
		Pos:     pos,
	})
}

// Notices returns a snapshot of all collected notices.
func (r *Reporter) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Count returns how many notices with the given code were collected.
func (r *Reporter) Count(code Code) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	for _, v := range r.notices {
		if v.Code == code {
			n++
		}
	}
	return n
}
