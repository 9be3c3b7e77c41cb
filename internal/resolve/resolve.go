// Package resolve derives per-table relationship views from the declared
// relationship list. Each declared relationship yields one view on each of
// its sides, carrying the cardinality as seen from that side and a generated
// accessor name when the document does not supply one.
package resolve

import (
	"fmt"

	"github.com/ormgen/ormgen/internal/naming"
	"github.com/ormgen/ormgen/internal/schema"
)

// Cardinality is the shape of a relationship as seen from one side.
type Cardinality string

const (
	HasMany    Cardinality = "has_many"
	BelongsTo  Cardinality = "belongs_to"
	ManyToMany Cardinality = "many_to_many"
)

// View is one side of a resolved relationship.
type View struct {
	Relationship  string // declared relationship name
	Kind          schema.RelKind
	Cardinality   Cardinality
	Table         string // counterpart table
	Accessor      string // generated or declared accessor name on this side
	Inverse       string // accessor name on the counterpart side
	ForeignKey    string // join field on the owning side
	ReferencedKey string
	OnDelete      schema.CascadeAction
	OnUpdate      schema.CascadeAction
	SelfRef       bool
	// Owning marks the declaring side: the holder of the foreign key, or
	// the source side of a many_to_many.
	Owning bool
}

// AmbiguousAccessorError reports two relationships generating the same
// accessor name on the same table.
type AmbiguousAccessorError struct {
	Table         string
	Accessor      string
	Relationships [2]string
}

func (e *AmbiguousAccessorError) Error() string {
	return fmt.Sprintf("ambiguous accessor %q on table %q (relationships %q and %q)",
		e.Accessor, e.Table, e.Relationships[0], e.Relationships[1])
}

// Resolution holds the per-table relationship views, in relationship
// declaration order.
type Resolution struct {
	views map[string][]View
}

// Views returns the ordered views for the given table.
func (r *Resolution) Views(table string) []View {
	return r.views[table]
}

// Relationships resolves the schema's relationship list. The schema must
// already be validated; an accessor collision is the only error condition
// and aborts generation for the whole run.
func Relationships(s *schema.Schema) (*Resolution, error) {
	res := &Resolution{views: make(map[string][]View)}

	for i := range s.Relationships {
		r := &s.Relationships[i]
		srcView, tgtView := resolveOne(s, r)
		res.views[r.SourceTable()] = append(res.views[r.SourceTable()], srcView)
		res.views[r.TargetTable()] = append(res.views[r.TargetTable()], tgtView)
	}

	for ti := range s.Tables {
		table := s.Tables[ti].Name
		views := res.views[table]
		seen := make(map[string]string, len(views))
		for _, v := range views {
			if prev, ok := seen[v.Accessor]; ok {
				return nil, &AmbiguousAccessorError{
					Table:         table,
					Accessor:      v.Accessor,
					Relationships: [2]string{prev, v.Relationship},
				}
			}
			seen[v.Accessor] = v.Relationship
		}
	}
	return res, nil
}

// resolveOne builds the source-side and target-side views of one declared
// relationship.
func resolveOne(s *schema.Schema, r *schema.Relationship) (View, View) {
	kind := r.Kind
	if r.SelfReferencing() {
		kind = schema.SelfReferencing
	}

	base := View{
		Relationship: r.Name,
		Kind:         kind,
		ForeignKey:   r.ForeignKey,
		OnDelete:     r.OnDelete,
		OnUpdate:     r.OnUpdate,
		SelfRef:      kind == schema.SelfReferencing,
	}

	src, tgt := base, base
	src.Table = r.TargetTable()
	tgt.Table = r.SourceTable()

	switch kind {
	case schema.ManyToMany:
		// Purely a labeling concern: two paired collection views bridged by
		// an implicit join, named after the relationship on both sides.
		src.Cardinality, tgt.Cardinality = ManyToMany, ManyToMany
		src.Owning = true
		src.Accessor = collection(tgt.Table)
		tgt.Accessor = collection(src.Table)
		if r.Name != "" {
			acc := collection(r.Name)
			src.Accessor, tgt.Accessor = acc, acc
		}
	case schema.ManyToOne:
		// Source owns the foreign key.
		src.Cardinality, tgt.Cardinality = BelongsTo, HasMany
		src.Owning = true
		src.Accessor = naming.Singularize(naming.Snake(src.Table))
		tgt.Accessor = collection(tgt.Table)
		src.ReferencedKey = referencedKey(s, r.TargetTable(), r.ReferencedKey)
		tgt.ReferencedKey = src.ReferencedKey
	case schema.SelfReferencing:
		// Source and target are the same table; a bare table name would
		// collide with the table's own identity, so both accessors derive
		// from the relationship name.
		src.Cardinality, tgt.Cardinality = HasMany, BelongsTo
		tgt.Owning = true
		single := naming.Singularize(naming.Snake(r.Name))
		src.Accessor = naming.Pluralize(single)
		tgt.Accessor = single
		src.ReferencedKey = referencedKey(s, r.SourceTable(), r.ReferencedKey)
		tgt.ReferencedKey = src.ReferencedKey
	default: // one_to_many
		// Target owns the foreign key.
		src.Cardinality, tgt.Cardinality = HasMany, BelongsTo
		tgt.Owning = true
		src.Accessor = collection(src.Table)
		tgt.Accessor = naming.Singularize(naming.Snake(tgt.Table))
		src.ReferencedKey = referencedKey(s, r.SourceTable(), r.ReferencedKey)
		tgt.ReferencedKey = src.ReferencedKey
	}

	if r.FieldName != "" {
		src.Accessor = r.FieldName
	}
	if r.RelatedFieldName != "" {
		tgt.Accessor = r.RelatedFieldName
	}

	src.Inverse = tgt.Accessor
	tgt.Inverse = src.Accessor
	return src, tgt
}

// collection normalizes a name to a plural snake_case accessor. Singularize
// first so already-plural table names do not pick up a second suffix.
func collection(name string) string {
	return naming.Pluralize(naming.Singularize(naming.Snake(name)))
}

// referencedKey applies the default: when the document omits referenced_key
// it is the referenced table's primary-key field name.
func referencedKey(s *schema.Schema, table, declared string) string {
	if declared != "" {
		return declared
	}
	if t := s.Table(table); t != nil {
		if pk := t.PrimaryKey(); pk != nil {
			return pk.Name
		}
	}
	return ""
}
