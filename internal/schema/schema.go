package schema

// Schema is the top-level, backend-independent description of a relational
// data model. Table and relationship order is preserved from the input
// document and determines output order.
type Schema struct {
	Name          string         `json:"name,omitempty" yaml:"name,omitempty"`
	Description   string         `json:"description,omitempty" yaml:"description,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Tables        []Table        `json:"tables" yaml:"tables"`
	Relationships []Relationship `json:"relationships,omitempty" yaml:"relationships,omitempty"`
}

// Table represents a single relational table.
type Table struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
	Indexes     []Index `json:"indexes,omitempty" yaml:"indexes,omitempty"`
}

// Field represents a table column in abstract terms.
type Field struct {
	Name          string    `json:"name" yaml:"name"`
	Type          FieldType `json:"type" yaml:"type"`
	IsPrimaryKey  bool      `json:"is_primary_key,omitempty" yaml:"is_primary_key,omitempty"`
	IsUnique      bool      `json:"is_unique,omitempty" yaml:"is_unique,omitempty"`
	IsNullable    bool      `json:"is_nullable,omitempty" yaml:"is_nullable,omitempty"`
	AutoIncrement bool      `json:"auto_increment,omitempty" yaml:"auto_increment,omitempty"`

	// DefaultValue is either a literal (string, number, bool) or a symbolic
	// call token such as "now()".
	DefaultValue any `json:"default_value,omitempty" yaml:"default_value,omitempty"`

	// Type-specific parameters. Each is only legal on its owning type.
	MaxLength  *int      `json:"max_length,omitempty" yaml:"max_length,omitempty"`
	EnumValues []string  `json:"enum_values,omitempty" yaml:"enum_values,omitempty"`
	ItemType   FieldType `json:"item_type,omitempty" yaml:"item_type,omitempty"`
}

// RelKind enumerates the declarable relationship kinds.
type RelKind string

const (
	OneToMany       RelKind = "one_to_many"
	ManyToOne       RelKind = "many_to_one"
	ManyToMany      RelKind = "many_to_many"
	SelfReferencing RelKind = "self_referencing"
)

// KnownKind reports whether k is a declarable relationship kind.
func KnownKind(k RelKind) bool {
	switch k {
	case OneToMany, ManyToOne, ManyToMany, SelfReferencing:
		return true
	}
	return false
}

// Relationship declares a link between two tables. Both the from/to and the
// legacy table/related_table spellings are accepted; SourceTable and
// TargetTable normalize them.
type Relationship struct {
	Name string  `json:"name" yaml:"name"`
	Kind RelKind `json:"type" yaml:"type"`

	From         string `json:"from,omitempty" yaml:"from,omitempty"`
	To           string `json:"to,omitempty" yaml:"to,omitempty"`
	Table        string `json:"table,omitempty" yaml:"table,omitempty"`
	RelatedTable string `json:"related_table,omitempty" yaml:"related_table,omitempty"`

	// ForeignKey names the join field on the owning (many) side.
	// ReferencedKey names the field it points at; when empty it defaults to
	// the referenced table's primary key.
	ForeignKey    string `json:"foreign_key,omitempty" yaml:"foreign_key,omitempty"`
	ReferencedKey string `json:"referenced_key,omitempty" yaml:"referenced_key,omitempty"`

	OnDelete CascadeAction `json:"on_delete,omitempty" yaml:"on_delete,omitempty"`
	OnUpdate CascadeAction `json:"on_update,omitempty" yaml:"on_update,omitempty"`

	// FieldName overrides the generated accessor on the source-side view;
	// RelatedFieldName overrides it on the target-side view.
	FieldName        string `json:"field_name,omitempty" yaml:"field_name,omitempty"`
	RelatedFieldName string `json:"related_field_name,omitempty" yaml:"related_field_name,omitempty"`
}

// SourceTable returns the declared source table name.
func (r *Relationship) SourceTable() string {
	if r.From != "" {
		return r.From
	}
	return r.Table
}

// TargetTable returns the declared target table name.
func (r *Relationship) TargetTable() string {
	if r.To != "" {
		return r.To
	}
	return r.RelatedTable
}

// SelfReferencing reports whether both ends are the same table. Such a
// relationship is classified self_referencing regardless of its declared kind.
func (r *Relationship) SelfReferencing() bool {
	return r.SourceTable() != "" && r.SourceTable() == r.TargetTable()
}

// CascadeAction enumerates referential actions on delete/update.
type CascadeAction string

const (
	Cascade  CascadeAction = "cascade"
	SetNull  CascadeAction = "set_null"
	Restrict CascadeAction = "restrict"
	NoAction CascadeAction = "no_action"
)

// KnownAction reports whether a is a valid cascade action.
func KnownAction(a CascadeAction) bool {
	switch a {
	case Cascade, SetNull, Restrict, NoAction:
		return true
	}
	return false
}

// Index represents a secondary index on a table.
type Index struct {
	Name   string   `json:"name" yaml:"name"`
	Fields []string `json:"fields" yaml:"fields"`
	Type   string   `json:"type,omitempty" yaml:"type,omitempty"` // btree, hash, gin, ...
}

// Table returns the table with the given name, or nil.
func (s *Schema) Table(name string) *Table {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// Field returns the field with the given name, or nil.
func (t *Table) Field(name string) *Field {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}
	return nil
}

// PrimaryKey returns the table's primary key field, or nil.
func (t *Table) PrimaryKey() *Field {
	for i := range t.Fields {
		if t.Fields[i].IsPrimaryKey {
			return &t.Fields[i]
		}
	}
	return nil
}
