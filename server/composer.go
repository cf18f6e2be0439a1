package server

import (
	"github.com/jrsteele09/bunai/gate"
	"github.com/jrsteele09/bunai/roles"
	"github.com/jrsteele09/bunai/routes"
	"github.com/jrsteele09/bunai/sessions"
)

// State is where a navigation stands. Every navigation starts Resolving and
// ends either Admitted or Redirected.
type State int

const (
	Resolving State = iota
	Admitted
	Redirected
)

func (s State) String() string {
	switch s {
	case Admitted:
		return "admitted"
	case Redirected:
		return "redirected"
	default:
		return "resolving"
	}
}

// Outcome is the result of one navigation. Location is set when Redirected
// and Match when a route was found.
type Outcome struct {
	State    State
	Location string
	Match    routes.Match
	Matched  bool
}

// Composer resolves paths against the route table and runs the gate over
// every matched chain.
type Composer struct {
	table   *routes.Table
	observe func(Outcome)
}

func NewComposer(table *routes.Table) *Composer {
	return &Composer{table: table}
}

// OnOutcome registers a hook called after every navigation.
func (c *Composer) OnOutcome(fn func(Outcome)) {
	c.observe = fn
}

func (c *Composer) Table() *routes.Table {
	return c.table
}

// Navigate decides what requesting p with session s shows. The gate runs on
// the whole chain before an index redirect, so a denied session never learns
// where the index points.
func (c *Composer) Navigate(p string, s sessions.Session) Outcome {
	out := c.navigate(p, s)
	if c.observe != nil {
		c.observe(out)
	}
	return out
}

func (c *Composer) navigate(p string, s sessions.Session) Outcome {
	m, ok := c.table.Match(p)
	if !ok {
		return Outcome{State: Redirected, Location: routes.LandingPath, Match: m}
	}

	decision, _ := gate.EvaluateChain(m.Chain, s)
	if !decision.IsAdmit() {
		return Outcome{State: Redirected, Location: decision.Location, Match: m, Matched: true}
	}
	if !validParams(m) {
		return Outcome{State: Redirected, Location: routes.LandingPath, Match: m, Matched: true}
	}
	if m.IndexPath != "" {
		return Outcome{State: Redirected, Location: m.IndexPath, Match: m, Matched: true}
	}
	return Outcome{State: Admitted, Match: m, Matched: true}
}

// validParams rejects a {role} segment naming a role outside the closed set.
func validParams(m routes.Match) bool {
	raw, ok := m.Params["role"]
	if !ok {
		return true
	}
	_, err := roles.Parse(raw)
	return err == nil
}
