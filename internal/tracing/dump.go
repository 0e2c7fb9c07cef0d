package tracing

// Dump converts cell into a JSON-friendly tree for the CLI's
// --dump-trace flag: the same information Render shows as text, shaped
// for a machine reader instead (spec.md §4.7: "Recording an
// EvaluationStep snapshot captures (cell, rendered_content)").
func Dump(cell *Cell) map[string]any {
	if cell == nil {
		return nil
	}
	valueText := "<nil>"
	if cell.Value != nil {
		valueText = cell.Value.String()
	}
	m := map[string]any{
		"id":    cell.ID,
		"kind":  cell.Kind.String(),
		"value": valueText,
		"dirty": cell.Dirty,
	}
	if cell.varName != "" {
		m["var"] = cell.varName
	}
	if len(cell.Children) > 0 {
		children := make([]map[string]any, len(cell.Children))
		for i, c := range cell.Children {
			children[i] = Dump(c)
		}
		m["children"] = children
	}
	return m
}
