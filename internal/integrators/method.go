package integrators

import (
	"fmt"
	"strings"

	"github.com/san-kum/particlesim/internal/dynamo"
)

// Method selects one of the built-in schemes.
type Method int

const (
	Euler Method = iota
	RK4
	RK6
	RKF45
	CK45
	DOPRI45
)

var tableaus = [...]*Tableau{
	Euler:   euler,
	RK4:     rk4,
	RK6:     rk6,
	RKF45:   rkf45,
	CK45:    ck45,
	DOPRI45: dopri45,
}

// Methods lists every scheme in order of increasing cost.
func Methods() []Method {
	return []Method{Euler, RK4, RK6, RKF45, CK45, DOPRI45}
}

func (m Method) Valid() bool { return m >= Euler && m <= DOPRI45 }

// Tableau returns the coefficients of m. The result is shared and must not be
// modified.
func (m Method) Tableau() *Tableau {
	if !m.Valid() {
		return nil
	}
	return tableaus[m]
}

// Embedded reports whether m carries an error estimate.
func (m Method) Embedded() bool {
	return m.Valid() && tableaus[m].Embedded()
}

func (m Method) String() string {
	if !m.Valid() {
		return fmt.Sprintf("method(%d)", int(m))
	}
	return tableaus[m].Name
}

// ParseMethod accepts the scheme names case-insensitively, plus a few common
// aliases.
func ParseMethod(s string) (Method, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "rk45", "dp45", "dormand-prince":
		return DOPRI45, nil
	case "fehlberg":
		return RKF45, nil
	case "cash-karp":
		return CK45, nil
	}
	for _, m := range Methods() {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown integration method %q: %w", s, dynamo.ErrInvalidConfig)
}
