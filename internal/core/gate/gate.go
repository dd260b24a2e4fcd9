// Package gate decides what a protected view does for the current session:
// wait, redirect, or render. Hosts turn the Outcome into their own routing
// action instead of rendering and redirecting at the same time.
package gate

import (
	"github.com/dkm/jobcards/internal/core/domain"
	"github.com/dkm/jobcards/internal/core/session"
)

// DashboardPath is the default authenticated landing view.
const DashboardPath = "/dashboard"

// Kind enumerates gate results.
type Kind int

const (
	// Wait means the session is still being restored.
	Wait Kind = iota
	// Redirect means the view must not render; go to Target instead.
	Redirect
	// Render means the view may render.
	Render
)

func (k Kind) String() string {
	switch k {
	case Wait:
		return "wait"
	case Redirect:
		return "redirect"
	case Render:
		return "render"
	default:
		return "unknown"
	}
}

// Outcome is the result of evaluating the gate.
type Outcome struct {
	Kind   Kind
	Target string
}

func Waiting() Outcome { return Outcome{Kind: Wait} }
func RedirectTo(target string) Outcome { return Outcome{Kind: Redirect, Target: target} }
func Rendering() Outcome { return Outcome{Kind: Render} }
func (o Outcome) Renders() bool { return o.Kind == Render }
func (o Outcome) Redirects() bool { return o.Kind == Redirect }

// Evaluate resolves the gate for snap. An empty allowed list admits every
// authenticated user.
func Evaluate(snap session.Snapshot, allowed ...domain.Role) Outcome {
	if snap.Loading {
		return Waiting()
	}
	if snap.User == nil || snap.Token == "" {
		return RedirectTo(session.LoginPath)
	}
	if len(allowed) > 0 && !snap.User.Role.In(allowed...) {
		return RedirectTo(DashboardPath)
	}
	return Rendering()
}
