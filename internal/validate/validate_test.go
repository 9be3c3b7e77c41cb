package validate

import (
	"strings"
	"testing"

	"github.com/ormgen/ormgen/internal/schema"
)

func intPtr(n int) *int { return &n }

// blogSchema is a minimal valid document: users with an email, posts with a
// foreign key back to users.
func blogSchema() *schema.Schema {
	return &schema.Schema{
		Name: "blog",
		Tables: []schema.Table{
			{
				Name: "users",
				Fields: []schema.Field{
					{Name: "id", Type: schema.TypeInteger, IsPrimaryKey: true, AutoIncrement: true},
					{Name: "email", Type: schema.TypeEmail, IsUnique: true, MaxLength: intPtr(255)},
				},
			},
			{
				Name: "posts",
				Fields: []schema.Field{
					{Name: "id", Type: schema.TypeInteger, IsPrimaryKey: true, AutoIncrement: true},
					{Name: "title", Type: schema.TypeString, MaxLength: intPtr(200)},
					{Name: "author_id", Type: schema.TypeInteger},
				},
			},
		},
		Relationships: []schema.Relationship{
			{
				Name:       "user_posts",
				Kind:       schema.OneToMany,
				From:       "users",
				To:         "posts",
				ForeignKey: "author_id",
				OnDelete:   schema.Cascade,
			},
		},
	}
}

func TestValidSchema(t *testing.T) {
	if errs := Document(blogSchema()); errs != nil {
		t.Fatalf("expected valid schema, got:\n%s", errs.Error())
	}
}

func TestEmptySchema(t *testing.T) {
	errs := Document(&schema.Schema{})
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs[0].Path != "tables" {
		t.Errorf("path = %q, want tables", errs[0].Path)
	}
}

func TestFieldViolations(t *testing.T) {
	tests := []struct {
		name  string
		field schema.Field
		path  string
	}{
		{
			"unknown type",
			schema.Field{Name: "x", Type: "decimal"},
			"tables[0].fields[1].type",
		},
		{
			"max_length on integer",
			schema.Field{Name: "count", Type: schema.TypeInteger, MaxLength: intPtr(10)},
			"tables[0].fields[1].max_length",
		},
		{
			"non-positive max_length",
			schema.Field{Name: "title", Type: schema.TypeString, MaxLength: intPtr(0)},
			"tables[0].fields[1].max_length",
		},
		{
			"enum_values on string",
			schema.Field{Name: "s", Type: schema.TypeString, EnumValues: []string{"a"}},
			"tables[0].fields[1].enum_values",
		},
		{
			"enum without values",
			schema.Field{Name: "status", Type: schema.TypeEnum},
			"tables[0].fields[1].enum_values",
		},
		{
			"unknown array item type",
			schema.Field{Name: "tags", Type: schema.TypeArray, ItemType: "decimal"},
			"tables[0].fields[1].item_type",
		},
		{
			"auto_increment on string",
			schema.Field{Name: "code", Type: schema.TypeString, AutoIncrement: true},
			"tables[0].fields[1].auto_increment",
		},
		{
			"nullable primary key",
			schema.Field{Name: "pk2", Type: schema.TypeUUID, IsPrimaryKey: true, IsNullable: true},
			"tables[0].fields[1].is_nullable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &schema.Schema{Tables: []schema.Table{{
				Name: "items",
				Fields: []schema.Field{
					{Name: "id", Type: schema.TypeInteger, IsPrimaryKey: true},
					tt.field,
				},
			}}}
			errs := Document(s)
			if errs == nil {
				t.Fatal("expected errors, got none")
			}
			found := false
			for _, e := range errs {
				if strings.HasPrefix(e.Path, tt.path) {
					found = true
				}
			}
			if !found {
				t.Errorf("no error at path %q, got:\n%s", tt.path, errs.Error())
			}
		})
	}
}

func TestDuplicateTableName(t *testing.T) {
	s := blogSchema()
	s.Tables = append(s.Tables, schema.Table{
		Name:   "users",
		Fields: []schema.Field{{Name: "id", Type: schema.TypeInteger, IsPrimaryKey: true}},
	})
	errs := Document(s)
	count := 0
	for _, e := range errs {
		if strings.Contains(e.Message, "duplicate table name") {
			count++
			if e.Path != "tables[2].name" {
				t.Errorf("path = %q, want tables[2].name", e.Path)
			}
		}
	}
	// One error per duplicate occurrence, not per pair member.
	if count != 1 {
		t.Errorf("expected exactly 1 duplicate-table error, got %d", count)
	}
}

func TestMultiplePrimaryKeys(t *testing.T) {
	s := blogSchema()
	s.Tables[0].Fields = append(s.Tables[0].Fields,
		schema.Field{Name: "alt_id", Type: schema.TypeUUID, IsPrimaryKey: true})
	errs := Document(s)
	if errs == nil {
		t.Fatal("expected errors")
	}
	if want := "tables[0].fields[2].is_primary_key"; errs[0].Path != want {
		t.Errorf("path = %q, want %q", errs[0].Path, want)
	}
}

func TestIndexReferencesUnknownField(t *testing.T) {
	s := blogSchema()
	s.Tables[1].Indexes = []schema.Index{{Name: "idx_missing", Fields: []string{"nope"}}}
	errs := Document(s)
	if errs == nil || !strings.Contains(errs[0].Message, `unknown field "nope"`) {
		t.Fatalf("expected unknown-field index error, got: %v", errs)
	}
}

func TestRelationshipViolations(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*schema.Relationship)
		want string
	}{
		{"unknown kind", func(r *schema.Relationship) { r.Kind = "one_to_one" }, "unknown relationship type"},
		{"unknown source", func(r *schema.Relationship) { r.From = "ghosts" }, `unknown table "ghosts"`},
		{"missing foreign key", func(r *schema.Relationship) { r.ForeignKey = "" }, "must declare a foreign key"},
		{"foreign key on wrong side", func(r *schema.Relationship) { r.ForeignKey = "email" }, "does not exist"},
		{"unknown referenced key", func(r *schema.Relationship) { r.ReferencedKey = "nope" }, "does not exist"},
		{"unique referenced key accepted", func(r *schema.Relationship) { r.ReferencedKey = "email"; r.From = "posts"; r.To = "users"; r.Kind = schema.ManyToOne }, ""},
		{"unknown cascade action", func(r *schema.Relationship) { r.OnDelete = "explode" }, `unknown cascade action "explode"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := blogSchema()
			tt.mut(&s.Relationships[0])
			errs := Document(s)
			if tt.want == "" {
				// email is unique on users, so this direction is legal.
				if errs != nil {
					t.Fatalf("expected valid, got:\n%s", errs.Error())
				}
				return
			}
			if errs == nil {
				t.Fatal("expected errors, got none")
			}
			if !strings.Contains(errs.Error(), tt.want) {
				t.Errorf("errors missing %q:\n%s", tt.want, errs.Error())
			}
		})
	}
}

func TestManyToManySkipsJoinKeys(t *testing.T) {
	s := blogSchema()
	s.Relationships = []schema.Relationship{{
		Name: "post_readers",
		Kind: schema.ManyToMany,
		From: "users",
		To:   "posts",
	}}
	if errs := Document(s); errs != nil {
		t.Fatalf("many_to_many without join keys should be valid, got:\n%s", errs.Error())
	}
}

func TestReferencedKeyDefaultsToPrimaryKey(t *testing.T) {
	s := blogSchema()
	// No referenced_key declared; users.id is the default and exists.
	if errs := Document(s); errs != nil {
		t.Fatalf("expected valid, got:\n%s", errs.Error())
	}

	// Remove the primary key so the default has nothing to land on.
	s.Tables[0].Fields[0].IsPrimaryKey = false
	errs := Document(s)
	if errs == nil || !strings.Contains(errs.Error(), "no primary key to default to") {
		t.Fatalf("expected missing-default error, got: %v", errs)
	}
}
