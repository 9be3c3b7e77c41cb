// Package validate checks a parsed schema document for structural and
// referential integrity. Every violation is collected before returning, so
// one pass surfaces the complete list of problems.
package validate

import (
	"fmt"
	"strings"

	"github.com/ormgen/ormgen/internal/schema"
)

// Error locates one validation failure inside the document.
type Error struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e Error) Error() string {
	return e.Path + ": " + e.Message
}

// Errors is the ordered list of all violations found in one pass.
type Errors []Error

func (es Errors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Document validates the whole schema. It returns nil when the schema is
// valid; otherwise the non-empty error list in document order (tables, then
// fields, then indexes, then relationships).
func Document(s *schema.Schema) Errors {
	var errs Errors
	add := func(path, format string, args ...any) {
		errs = append(errs, Error{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if len(s.Tables) == 0 {
		add("tables", "schema must contain at least one table")
	}

	tableNames := make(map[string]bool, len(s.Tables))
	for ti, t := range s.Tables {
		tPath := fmt.Sprintf("tables[%d]", ti)

		if t.Name == "" {
			add(tPath+".name", "table must have a name")
		} else if tableNames[t.Name] {
			add(tPath+".name", "duplicate table name %q", t.Name)
		} else {
			tableNames[t.Name] = true
		}

		if len(t.Fields) == 0 {
			add(tPath+".fields", "table %q must contain at least one field", t.Name)
		}

		validateFields(&t, tPath, add)
		validateIndexes(&t, tPath, add)
	}

	for ri := range s.Relationships {
		validateRelationship(s, &s.Relationships[ri], ri, add)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateFields(t *schema.Table, tPath string, add func(string, string, ...any)) {
	fieldNames := make(map[string]bool, len(t.Fields))
	pkSeen := false

	for fi, f := range t.Fields {
		fPath := fmt.Sprintf("%s.fields[%d]", tPath, fi)

		if f.Name == "" {
			add(fPath+".name", "field must have a name")
		} else if fieldNames[f.Name] {
			add(fPath+".name", "duplicate field name %q in table %q", f.Name, t.Name)
		} else {
			fieldNames[f.Name] = true
		}

		if !schema.Known(f.Type) {
			add(fPath+".type", "unknown field type %q", f.Type)
			continue
		}

		// Type-specific parameters are only legal on their owning type.
		if f.MaxLength != nil {
			if !schema.AcceptsParameter(f.Type, "max_length") {
				add(fPath+".max_length", "max_length is not valid for type %q", f.Type)
			} else if *f.MaxLength <= 0 {
				add(fPath+".max_length", "max_length must be a positive integer")
			}
		}
		if f.EnumValues != nil && !schema.AcceptsParameter(f.Type, "enum_values") {
			add(fPath+".enum_values", "enum_values is not valid for type %q", f.Type)
		}
		if f.ItemType != "" && !schema.AcceptsParameter(f.Type, "item_type") {
			add(fPath+".item_type", "item_type is not valid for type %q", f.Type)
		}

		switch f.Type {
		case schema.TypeEnum:
			if len(f.EnumValues) == 0 {
				add(fPath+".enum_values", "enum field %q must declare at least one value", f.Name)
			}
			seen := make(map[string]bool, len(f.EnumValues))
			for vi, v := range f.EnumValues {
				if seen[v] {
					add(fmt.Sprintf("%s.enum_values[%d]", fPath, vi), "duplicate enum value %q", v)
				}
				seen[v] = true
			}
		case schema.TypeArray:
			if f.ItemType != "" && !schema.Known(f.ItemType) {
				add(fPath+".item_type", "unknown array item type %q", f.ItemType)
			}
		}

		if f.IsPrimaryKey {
			if pkSeen {
				add(fPath+".is_primary_key", "table %q has more than one primary key", t.Name)
			}
			pkSeen = true
			if f.IsNullable {
				add(fPath+".is_nullable", "primary key field %q may not be nullable", f.Name)
			}
		}
		if f.AutoIncrement && f.Type != schema.TypeInteger {
			add(fPath+".auto_increment", "auto_increment requires an integer field, got %q", f.Type)
		}
	}
}

func validateIndexes(t *schema.Table, tPath string, add func(string, string, ...any)) {
	for ii, idx := range t.Indexes {
		iPath := fmt.Sprintf("%s.indexes[%d]", tPath, ii)
		if idx.Name == "" {
			add(iPath+".name", "index must have a name")
		}
		if len(idx.Fields) == 0 {
			add(iPath+".fields", "index %q must list at least one field", idx.Name)
		}
		for fi, name := range idx.Fields {
			if t.Field(name) == nil {
				add(fmt.Sprintf("%s.fields[%d]", iPath, fi),
					"index %q references unknown field %q", idx.Name, name)
			}
		}
	}
}

func validateRelationship(s *schema.Schema, r *schema.Relationship, ri int, add func(string, string, ...any)) {
	rPath := fmt.Sprintf("relationships[%d]", ri)

	if r.Name == "" {
		add(rPath+".name", "relationship must have a name")
	}
	if r.Kind == "" {
		add(rPath+".type", "relationship must declare a type")
	} else if !schema.KnownKind(r.Kind) {
		add(rPath+".type", "unknown relationship type %q", r.Kind)
	}

	if r.SourceTable() == "" || r.TargetTable() == "" {
		add(rPath, "relationship must reference a source and a target table")
		return
	}

	src := s.Table(r.SourceTable())
	if src == nil {
		add(rPath+".from", "unknown table %q", r.SourceTable())
	}
	tgt := s.Table(r.TargetTable())
	if tgt == nil {
		add(rPath+".to", "unknown table %q", r.TargetTable())
	}

	if r.OnDelete != "" && !schema.KnownAction(r.OnDelete) {
		add(rPath+".on_delete", "unknown cascade action %q", r.OnDelete)
	}
	if r.OnUpdate != "" && !schema.KnownAction(r.OnUpdate) {
		add(rPath+".on_update", "unknown cascade action %q", r.OnUpdate)
	}

	if src == nil || tgt == nil {
		return
	}

	// Join-key checks do not apply to many_to_many: its keys live on the
	// implicit join table, which is never materialized in the schema.
	kind := r.Kind
	if r.SelfReferencing() {
		kind = schema.SelfReferencing
	}
	if kind == schema.ManyToMany {
		return
	}

	// The owning side is the many side: the target of a one_to_many, the
	// source of a many_to_one. The other side is the referenced side.
	owning, referenced := tgt, src
	if kind == schema.ManyToOne {
		owning, referenced = src, tgt
	}

	if r.ForeignKey == "" {
		add(rPath+".foreign_key", "relationship %q must declare a foreign key", r.Name)
	} else if owning.Field(r.ForeignKey) == nil {
		add(rPath+".foreign_key",
			"foreign key field %q does not exist on table %q", r.ForeignKey, owning.Name)
	}

	refKey := r.ReferencedKey
	if refKey == "" {
		pk := referenced.PrimaryKey()
		if pk == nil {
			add(rPath+".referenced_key",
				"referenced table %q has no primary key to default to", referenced.Name)
			return
		}
		refKey = pk.Name
	}
	ref := referenced.Field(refKey)
	switch {
	case ref == nil:
		add(rPath+".referenced_key",
			"referenced key field %q does not exist on table %q", refKey, referenced.Name)
	case !ref.IsPrimaryKey && !ref.IsUnique:
		add(rPath+".referenced_key",
			"referenced key field %q on table %q must be a primary key or unique", refKey, referenced.Name)
	}
}
