package interpreter

import (
	"github.com/crytic/concolic/symbolic"
	"golang.org/x/exp/slices"
)

// symbolicMemory maps memory addresses to the symbolic expressions they hold. Addresses holding concrete values are
// absent from the map, so every stored expression is non-concrete.
type symbolicMemory struct {
	exprs map[symbolic.Addr]*symbolic.Expr
}

func newSymbolicMemory() *symbolicMemory {
	return &symbolicMemory{
		exprs: make(map[symbolic.Addr]*symbolic.Expr),
	}
}

// load returns a copy of the expression at addr, or nil if addr holds a concrete value.
func (m *symbolicMemory) load(addr symbolic.Addr) *symbolic.Expr {
	if expr, ok := m.exprs[addr]; ok {
		return expr.Clone()
	}
	return nil
}

// get returns the expression owned by the memory at addr without copying it.
func (m *symbolicMemory) get(addr symbolic.Addr) (*symbolic.Expr, bool) {
	expr, ok := m.exprs[addr]
	return expr, ok
}

// store takes ownership of expr and places it at addr, releasing any previous owner. A nil or concrete expr marks
// addr as concrete.
func (m *symbolicMemory) store(addr symbolic.Addr, expr *symbolic.Expr) {
	if expr == nil || expr.IsConcrete() {
		delete(m.exprs, addr)
		return
	}
	m.exprs[addr] = expr
}

// len returns the number of symbolic addresses.
func (m *symbolicMemory) len() int {
	return len(m.exprs)
}

// addrs returns every symbolic address in ascending order.
func (m *symbolicMemory) addrs() []symbolic.Addr {
	addrs := make([]symbolic.Addr, 0, len(m.exprs))
	for addr := range m.exprs {
		addrs = append(addrs, addr)
	}
	slices.Sort(addrs)
	return addrs
}
