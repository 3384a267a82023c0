package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/crytic/concolic/logging/colors"
	"github.com/crytic/concolic/symbolic"
)

// executionView describes a recorded execution in a form suitable for printing.
type executionView struct {
	Inputs []inputView     `json:"inputs"`
	Path   []pathEntryView `json:"path"`
}

// inputView describes a single input of an execution.
type inputView struct {
	Var   symbolic.VarID `json:"var"`
	Type  string         `json:"type,omitempty"`
	Value symbolic.Value `json:"value"`
}

// pathEntryView describes a single path entry of an execution.
type pathEntryView struct {
	Kind     string               `json:"kind"`
	Branch   *symbolic.BranchID   `json:"branch,omitempty"`
	Function *symbolic.FunctionID `json:"function,omitempty"`
	Pred     string               `json:"pred,omitempty"`
}

// newExecutionView creates an executionView of the provided execution.
func newExecutionView(ex *symbolic.Execution) executionView {
	view := executionView{
		Inputs: make([]inputView, 0, ex.NumInputs()),
		Path:   make([]pathEntryView, 0, ex.Path().Len()),
	}

	vars := ex.Vars()
	for i, v := range ex.Inputs() {
		input := inputView{Var: symbolic.VarID(i), Value: v}
		if t, ok := vars[input.Var]; ok {
			input.Type = t.String()
		}
		view.Inputs = append(view.Inputs, input)
	}

	for _, entry := range ex.Path().Entries() {
		e := pathEntryView{Kind: entry.Kind.String()}
		switch entry.Kind {
		case symbolic.PathEntryBranch:
			branch := entry.Branch
			e.Branch = &branch
			if entry.Pred != nil {
				e.Pred = entry.Pred.String()
			}
		case symbolic.PathEntryCall:
			function := entry.Function
			e.Function = &function
		}
		view.Path = append(view.Path, e)
	}
	return view
}

// writeJSON writes the view as indented JSON.
func (v executionView) writeJSON(w io.Writer) error {
	b, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// writeText writes the view in a human-readable form. Call and return entries are indented by call depth.
func (v executionView) writeText(w io.Writer) error {
	var sb strings.Builder

	sb.WriteString(colors.Bold(fmt.Sprintf("Inputs (%d):", len(v.Inputs))) + "\n")
	for _, input := range v.Inputs {
		typ := input.Type
		if typ == "" {
			typ = "undeclared"
		}
		sb.WriteString(fmt.Sprintf("  x%d %s = %d\n", input.Var, colors.DarkGray(typ), input.Value))
	}

	sb.WriteString(colors.Bold(fmt.Sprintf("Path (%d):", len(v.Path))) + "\n")
	depth := 1
	for _, entry := range v.Path {
		if entry.Kind == symbolic.PathEntryReturn.String() && depth > 1 {
			depth--
		}
		indent := strings.Repeat("  ", depth)
		switch {
		case entry.Function != nil:
			sb.WriteString(fmt.Sprintf("%scall %d\n", indent, *entry.Function))
			depth++
		case entry.Branch != nil && entry.Pred != "":
			sb.WriteString(fmt.Sprintf("%sbranch %d: %s\n", indent, *entry.Branch, colors.Cyan(entry.Pred)))
		case entry.Branch != nil:
			sb.WriteString(fmt.Sprintf("%sbranch %d %s\n", indent, *entry.Branch, colors.DarkGray("(concrete)")))
		default:
			sb.WriteString(indent + entry.Kind + "\n")
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
