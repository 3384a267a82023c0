package oplog

import (
	"github.com/crytic/concolic/hooks"
	"github.com/pkg/errors"
)

// Run invokes the callback of every operation on the provided Runtime, in order. Replay stops at the first contract
// violation, which is returned annotated with the line of the operation that raised it.
func Run(rt *hooks.Runtime, ops []Op) error {
	for _, op := range ops {
		if err := rt.Guard(func() { apply(rt, op) }); err != nil {
			return errors.Wrapf(err, "line %d", op.Line)
		}
	}
	return nil
}

// apply invokes the callback described by op.
func apply(rt *hooks.Runtime, op Op) {
	switch op.Kind {
	case KindClear:
		rt.ClearStack(op.Site)
	case KindLoad:
		rt.Load(op.Site, op.Addr, op.Value)
	case KindStore:
		rt.Store(op.Site, op.Addr)
	case KindApply1:
		rt.Apply1(op.Site, op.Opcode, op.Value)
	case KindApply2:
		rt.Apply2(op.Site, op.Opcode, op.Value)
	case KindBranch:
		rt.Branch(op.Site, op.Branch, op.Taken)
	case KindCall:
		rt.Call(op.Site, op.Function)
	case KindReturn:
		rt.Return(op.Site)
	case KindHandleReturn:
		rt.HandleReturn(op.Site, op.Value)
	case KindInput:
		rt.NewInput(op.InputType, op.Addr, nil)
	case KindInputValue:
		value := op.Value
		rt.NewInput(op.InputType, op.Addr, &value)
	case KindVarMap:
		rt.VarMap(op.Addr, op.Name, op.VarType, op.Trigger)
	case KindLogState:
		rt.LogState(op.Location)
	case KindLogPC:
		rt.LogPathCondition(op.Location)
	}
}
