package symbolic

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// Expr describes a linear symbolic expression over input variables, c0 + c1*x1 + ... + cn*xn. An Expr is
// concrete when it has no variable terms, in which case its value is fully described by its constant.
// Coefficients are never stored as zero. All arithmetic wraps on overflow.
type Expr struct {
	// coeff maps each variable with a non-zero coefficient to that coefficient.
	coeff map[VarID]Value

	// constant describes the constant term of the expression.
	constant Value
}

// NewConstExpr returns a concrete expression with the provided constant.
func NewConstExpr(c Value) *Expr {
	return &Expr{
		coeff:    make(map[VarID]Value),
		constant: c,
	}
}

// NewVarExpr returns the expression coeff*v. A zero coefficient yields the concrete expression 0.
func NewVarExpr(coeff Value, v VarID) *Expr {
	e := NewConstExpr(0)
	if coeff != 0 {
		e.coeff[v] = coeff
	}
	return e
}

// Clone returns a deep copy of the expression.
func (e *Expr) Clone() *Expr {
	clone := &Expr{
		coeff:    make(map[VarID]Value, len(e.coeff)),
		constant: e.constant,
	}
	for v, c := range e.coeff {
		clone.coeff[v] = c
	}
	return clone
}

// IsConcrete reports whether the expression has no variable terms.
func (e *Expr) IsConcrete() bool {
	return len(e.coeff) == 0
}

// Constant returns the constant term of the expression.
func (e *Expr) Constant() Value {
	return e.constant
}

// Coefficient returns the coefficient of v, or zero if v does not occur in the expression.
func (e *Expr) Coefficient(v VarID) Value {
	return e.coeff[v]
}

// Vars returns the variables occurring in the expression in ascending order.
func (e *Expr) Vars() []VarID {
	vars := make([]VarID, 0, len(e.coeff))
	for v := range e.coeff {
		vars = append(vars, v)
	}
	slices.Sort(vars)
	return vars
}

// Add adds o to the expression in place.
func (e *Expr) Add(o *Expr) {
	e.constant += o.constant
	for v, c := range o.coeff {
		e.addTerm(v, c)
	}
}

// AddConst adds c to the constant term in place.
func (e *Expr) AddConst(c Value) {
	e.constant += c
}

// Sub subtracts o from the expression in place.
func (e *Expr) Sub(o *Expr) {
	e.constant -= o.constant
	for v, c := range o.coeff {
		e.addTerm(v, -c)
	}
}

// SubConst subtracts c from the constant term in place.
func (e *Expr) SubConst(c Value) {
	e.constant -= c
}

// MulConst multiplies the expression by the scalar c in place.
func (e *Expr) MulConst(c Value) {
	if c == 0 {
		clear(e.coeff)
		e.constant = 0
		return
	}
	e.constant *= c
	for v := range e.coeff {
		e.coeff[v] *= c
		if e.coeff[v] == 0 {
			// A product can wrap to zero.
			delete(e.coeff, v)
		}
	}
}

// Mul multiplies the expression by o in place if the product is linear, that is, if at least one of the two
// expressions is concrete. Returns false, leaving the expression unchanged, if both are symbolic.
func (e *Expr) Mul(o *Expr) bool {
	switch {
	case o.IsConcrete():
		e.MulConst(o.constant)
	case e.IsConcrete():
		c := e.constant
		e.constant = o.constant
		e.coeff = make(map[VarID]Value, len(o.coeff))
		for v, oc := range o.coeff {
			e.coeff[v] = oc
		}
		e.MulConst(c)
	default:
		return false
	}
	return true
}

// Negate negates the expression in place.
func (e *Expr) Negate() {
	e.constant = -e.constant
	for v := range e.coeff {
		e.coeff[v] = -e.coeff[v]
	}
}

// Eval evaluates the expression under the provided assignment of input values, indexed by VarID. Variables
// without an assigned value evaluate to zero.
func (e *Expr) Eval(inputs []Value) Value {
	result := e.constant
	for v, c := range e.coeff {
		if int(v) < len(inputs) {
			result += c * inputs[v]
		}
	}
	return result
}

// Equal reports whether two expressions have the same constant and coefficients.
func (e *Expr) Equal(o *Expr) bool {
	if e.constant != o.constant || len(e.coeff) != len(o.coeff) {
		return false
	}
	for v, c := range e.coeff {
		if oc, ok := o.coeff[v]; !ok || oc != c {
			return false
		}
	}
	return true
}

// String returns a deterministic infix rendering of the expression, with terms ordered by variable id and the
// constant last, for example "2*x0 - x3 + 7".
func (e *Expr) String() string {
	var b strings.Builder
	for i, v := range e.Vars() {
		c := e.coeff[v]
		if i == 0 {
			if c < 0 {
				b.WriteString("-")
			}
		} else if c < 0 {
			b.WriteString(" - ")
		} else {
			b.WriteString(" + ")
		}
		if mag := abs(c); mag != 1 {
			b.WriteString(strconv.FormatUint(mag, 10))
			b.WriteString("*")
		}
		b.WriteString("x")
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	}

	switch {
	case b.Len() == 0:
		b.WriteString(strconv.FormatInt(e.constant, 10))
	case e.constant < 0:
		b.WriteString(" - ")
		b.WriteString(strconv.FormatUint(abs(e.constant), 10))
	case e.constant > 0:
		b.WriteString(" + ")
		b.WriteString(strconv.FormatInt(e.constant, 10))
	}
	return b.String()
}

// addTerm adds c*v to the expression, removing the term if its coefficient cancels out.
func (e *Expr) addTerm(v VarID, c Value) {
	sum := e.coeff[v] + c
	if sum == 0 {
		delete(e.coeff, v)
	} else {
		e.coeff[v] = sum
	}
}

// abs returns the magnitude of v as an unsigned value, so the minimum Value does not overflow.
func abs(v Value) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}
