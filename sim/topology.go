package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// DiagnosticCode identifies a class of topology problem.
type DiagnosticCode string

const (
	DiagDanglingInput  DiagnosticCode = "dangling_input"
	DiagDanglingOutput DiagnosticCode = "dangling_output"
	DiagNoFeed         DiagnosticCode = "no_feed"
	DiagNoDrain        DiagnosticCode = "no_drain"
	DiagNoFeedPath     DiagnosticCode = "no_feed_drain_path"
	DiagOrphan         DiagnosticCode = "orphan_component"
)

// Severity of a diagnostic. Errors mark broken references; warnings mark
// suspicious but runnable topologies. Neither stops the simulation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one structured finding from VerifyIntegrity, intended for an
// external UI to render. The engine never prints these itself beyond logging.
type Diagnostic struct {
	Code        DiagnosticCode `json:"code"`
	Severity    Severity       `json:"severity"`
	ComponentID string         `json:"componentId,omitempty"`
	Ref         string         `json:"ref,omitempty"`
	Message     string         `json:"message"`
}

// IntegrityReport collects the diagnostics of one validation run.
type IntegrityReport struct {
	Diagnostics []Diagnostic
}

// Errors returns the error-severity diagnostics.
func (r *IntegrityReport) Errors() []Diagnostic {
	return r.filter(SeverityError)
}

// Warnings returns the warning-severity diagnostics.
func (r *IntegrityReport) Warnings() []Diagnostic {
	return r.filter(SeverityWarning)
}

// OK reports whether the run produced no errors (warnings allowed).
func (r *IntegrityReport) OK() bool {
	return len(r.Errors()) == 0
}

func (r *IntegrityReport) filter(sev Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

func (r *IntegrityReport) add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
	switch d.Severity {
	case SeverityError:
		logrus.Warnf("topology error [%s] %s", d.Code, d.Message)
	default:
		logrus.Infof("topology warning [%s] %s", d.Code, d.Message)
	}
}

// VerifyIntegrity walks every component's input/output lists and the overall
// graph shape. Dangling references are reported but NOT pruned: the reference
// stays in place and simply contributes zero flow at runtime. The network
// additionally wants at least one feed, at least one drain, and a directed
// path from some feed to some drain; their absence is a warning, not an
// error.
func (n *FlowNetwork) VerifyIntegrity() *IntegrityReport {
	report := &IntegrityReport{}

	for _, c := range n.Components() {
		for _, ref := range c.Inputs() {
			if _, ok := n.components[ref]; !ok {
				report.add(Diagnostic{
					Code:        DiagDanglingInput,
					Severity:    SeverityError,
					ComponentID: c.ID(),
					Ref:         ref,
					Message:     fmt.Sprintf("%s lists input %q which does not exist", c.ID(), ref),
				})
			}
		}
		for _, ref := range c.Outputs() {
			if _, ok := n.components[ref]; !ok {
				report.add(Diagnostic{
					Code:        DiagDanglingOutput,
					Severity:    SeverityError,
					ComponentID: c.ID(),
					Ref:         ref,
					Message:     fmt.Sprintf("%s lists output %q which does not exist", c.ID(), ref),
				})
			}
		}
		if !isBoundaryKind(c.Kind()) && len(c.Inputs()) == 0 && len(c.Outputs()) == 0 {
			report.add(Diagnostic{
				Code:        DiagOrphan,
				Severity:    SeverityWarning,
				ComponentID: c.ID(),
				Message:     fmt.Sprintf("%s is connected to nothing", c.ID()),
			})
		}
	}

	feeds := n.ComponentsByKind(KindFeed)
	drains := n.ComponentsByKind(KindDrain)
	if len(feeds) == 0 {
		report.add(Diagnostic{
			Code:     DiagNoFeed,
			Severity: SeverityWarning,
			Message:  "network has no feed",
		})
	}
	if len(drains) == 0 {
		report.add(Diagnostic{
			Code:     DiagNoDrain,
			Severity: SeverityWarning,
			Message:  "network has no drain",
		})
	}
	if len(feeds) > 0 && len(drains) > 0 && !n.pathFromFeedToDrain(feeds) {
		report.add(Diagnostic{
			Code:     DiagNoFeedPath,
			Severity: SeverityWarning,
			Message:  "no directed path from any feed to any drain",
		})
	}
	return report
}

func isBoundaryKind(k ComponentKind) bool {
	return k == KindFeed || k == KindDrain
}

// pathFromFeedToDrain runs a cycle-safe depth-first search along output
// references from each feed.
func (n *FlowNetwork) pathFromFeedToDrain(feeds []Component) bool {
	for _, feed := range feeds {
		visited := make(map[string]bool)
		if n.reachesDrain(feed.ID(), visited) {
			return true
		}
	}
	return false
}

func (n *FlowNetwork) reachesDrain(id string, visited map[string]bool) bool {
	if visited[id] {
		return false
	}
	visited[id] = true
	c, ok := n.components[id]
	if !ok {
		return false
	}
	if c.Kind() == KindDrain {
		return true
	}
	for _, out := range c.Outputs() {
		if n.reachesDrain(out, visited) {
			return true
		}
	}
	return false
}
