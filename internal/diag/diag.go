// Package diag is the diagnostics sink contract: every failure path in
// the engine reports a stable reason code plus structured context.
// Formatting for users happens elsewhere.
package diag

import (
	"log"
	"sort"
	"strings"
	"sync"
)

// Stable reason codes. These are part of the diagnostic contract and
// must not be renamed once emitted.
const (
	CodeConfiguration     = "configuration_error"
	CodeTemplateSyntax    = "template_syntax_error"
	CodeQueryShape        = "query_shape_error"
	CodeFieldResolution   = "field_resolution_error"
	CodeReconciliation    = "reconciliation_error"
	CodeDuplicateTemplate = "duplicate_template"
	CodeMissingQuery      = "missing_collection_query"
)

// Sink receives failure reports. Implementations must be safe for
// concurrent use.
type Sink interface {
	Report(code string, err error, ctx map[string]string)
}

// LogSink writes reports to the standard logger.
type LogSink struct{}

// Report implements Sink.
func (LogSink) Report(code string, err error, ctx map[string]string) {
	log.Printf("diag code=%s err=%v %s", code, err, formatCtx(ctx))
}

func formatCtx(ctx map[string]string) string {
	if len(ctx) == 0 {
		return ""
	}
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(ctx[k])
	}
	return b.String()
}

// Report is one recorded diagnostic.
type Report struct {
	Code string
	Err  error
	Ctx  map[string]string
}

// Recorder is a Sink that keeps every report in memory, for tests.
type Recorder struct {
	mu      sync.Mutex
	reports []Report
}

// Report implements Sink.
func (r *Recorder) Report(code string, err error, ctx map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, Report{Code: code, Err: err, Ctx: ctx})
}

// Reports returns a copy of everything recorded so far.
func (r *Recorder) Reports() []Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Report, len(r.reports))
	copy(out, r.reports)
	return out
}

// Codes returns the recorded codes in order.
func (r *Recorder) Codes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	codes := make([]string, len(r.reports))
	for i, rep := range r.reports {
		codes[i] = rep.Code
	}
	return codes
}
