package codegen

import (
	"fmt"
	"strings"

	"github.com/ormgen/ormgen/internal/schema"
)

// diagramUnit renders the relationship structure as a Mermaid graph, one
// edge per relationship from the many side to the one side, labeled with
// the join key. Output order follows the document for reproducible diffs.
func diagramUnit(s *schema.Schema) OutputUnit {
	var b strings.Builder
	fmt.Fprintln(&b, "graph TD")

	linked := make(map[string]bool)
	for i := range s.Relationships {
		r := &s.Relationships[i]
		linked[r.SourceTable()] = true
		linked[r.TargetTable()] = true

		kind := r.Kind
		if r.SelfReferencing() {
			kind = schema.SelfReferencing
		}
		switch kind {
		case schema.ManyToMany:
			fmt.Fprintf(&b, "    %s ---|%s| %s\n", r.SourceTable(), r.Name, r.TargetTable())
		case schema.ManyToOne:
			fmt.Fprintf(&b, "    %s -->|%s| %s\n", r.SourceTable(), r.ForeignKey, r.TargetTable())
		default:
			fmt.Fprintf(&b, "    %s -->|%s| %s\n", r.TargetTable(), r.ForeignKey, r.SourceTable())
		}
	}

	for _, t := range s.Tables {
		if !linked[t.Name] {
			fmt.Fprintf(&b, "    %s\n", t.Name)
		}
	}

	return OutputUnit{RelativePath: "schema.mmd", Content: b.String()}
}
