package services

import (
	"flightsurety/internal/domain"
)

// AccessGate is the process-wide operational switch owned by one principal.
type AccessGate struct {
	owner       domain.Principal
	operational bool
	testingMode bool
	authorized  map[domain.Principal]bool
}

func NewAccessGate(owner domain.Principal) *AccessGate {
	return &AccessGate{
		owner:       owner,
		operational: true,
		authorized:  map[domain.Principal]bool{},
	}
}

func (g *AccessGate) Owner() domain.Principal { return g.owner }

func (g *AccessGate) IsOperational() bool { return g.operational }

func (g *AccessGate) TestingMode() bool { return g.testingMode }

// RequireOperational is the precondition of every mutating entry point.
func (g *AccessGate) RequireOperational() error {
	if !g.operational {
		return domain.Errorf(domain.ErrSystemPaused, "contract is currently not operational")
	}
	return nil
}

func (g *AccessGate) requireOwner(caller domain.Principal) error {
	if caller.IsZero() || caller != g.owner {
		return domain.Errorf(domain.ErrUnauthorized, "caller %s is not the contract owner", caller)
	}
	return nil
}

// SetOperatingStatus is owner-only and stays callable while paused.
func (g *AccessGate) SetOperatingStatus(caller domain.Principal, mode bool) error {
	if err := g.requireOwner(caller); err != nil {
		return err
	}
	g.operational = mode
	return nil
}

func (g *AccessGate) SetTestingMode(caller domain.Principal, mode bool) error {
	if err := g.RequireOperational(); err != nil {
		return err
	}
	if err := g.requireOwner(caller); err != nil {
		return err
	}
	g.testingMode = mode
	return nil
}

// AuthorizeCaller lets app relay calls on behalf of end users.
func (g *AccessGate) AuthorizeCaller(caller, app domain.Principal) error {
	if err := g.RequireOperational(); err != nil {
		return err
	}
	if err := g.requireOwner(caller); err != nil {
		return err
	}
	if app.IsZero() {
		return domain.ValidationError{Field: "caller", Msg: "principal is required"}
	}
	g.authorized[app] = true
	return nil
}

func (g *AccessGate) DeauthorizeCaller(caller, app domain.Principal) error {
	if err := g.RequireOperational(); err != nil {
		return err
	}
	if err := g.requireOwner(caller); err != nil {
		return err
	}
	delete(g.authorized, app)
	return nil
}

func (g *AccessGate) IsAuthorizedCaller(p domain.Principal) bool {
	return p == g.owner || g.authorized[p]
}
