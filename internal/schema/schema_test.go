package schema

import (
	"testing"
)

func TestParseJSON(t *testing.T) {
	doc := `{
		"name": "blog",
		"tables": [
			{"name": "users", "fields": [
				{"name": "id", "type": "integer", "is_primary_key": true, "auto_increment": true},
				{"name": "email", "type": "email", "is_unique": true, "max_length": 255}
			]}
		],
		"relationships": []
	}`

	s, err := ParseJSON([]byte(doc))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if s.Name != "blog" {
		t.Errorf("schema name = %q, want blog", s.Name)
	}
	if len(s.Tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(s.Tables))
	}

	users := s.Table("users")
	if users == nil {
		t.Fatal("Table(users) = nil")
	}
	email := users.Field("email")
	if email == nil {
		t.Fatal("Field(email) = nil")
	}
	if email.Type != TypeEmail || !email.IsUnique {
		t.Errorf("email field parsed wrong: %+v", email)
	}
	if email.MaxLength == nil || *email.MaxLength != 255 {
		t.Errorf("email max_length not parsed")
	}
	if pk := users.PrimaryKey(); pk == nil || pk.Name != "id" {
		t.Errorf("PrimaryKey() = %v, want id", pk)
	}
}

func TestParseYAML(t *testing.T) {
	doc := `
name: shop
tables:
  - name: products
    fields:
      - name: id
        type: integer
        is_primary_key: true
      - name: price
        type: float
        default_value: 0.0
`
	s, err := ParseYAML([]byte(doc))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if s.Table("products") == nil {
		t.Fatal("products table missing")
	}
	if s.Table("products").Field("price").DefaultValue == nil {
		t.Error("default_value not parsed")
	}
}

func TestRelationshipTableSpellings(t *testing.T) {
	tests := []struct {
		name    string
		rel     Relationship
		src, to string
	}{
		{"from/to", Relationship{From: "users", To: "posts"}, "users", "posts"},
		{"table/related_table", Relationship{Table: "users", RelatedTable: "posts"}, "users", "posts"},
		{"from wins over table", Relationship{From: "a", Table: "b", To: "c"}, "a", "c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rel.SourceTable(); got != tt.src {
				t.Errorf("SourceTable() = %q, want %q", got, tt.src)
			}
			if got := tt.rel.TargetTable(); got != tt.to {
				t.Errorf("TargetTable() = %q, want %q", got, tt.to)
			}
		})
	}
}

func TestSelfReferencing(t *testing.T) {
	r := Relationship{From: "employees", To: "employees", Kind: OneToMany}
	if !r.SelfReferencing() {
		t.Error("expected self-referencing")
	}
	r2 := Relationship{From: "users", To: "posts"}
	if r2.SelfReferencing() {
		t.Error("users->posts is not self-referencing")
	}
}

func TestTypeCatalog(t *testing.T) {
	for _, typ := range AllTypes {
		if !Known(typ) {
			t.Errorf("catalog type %q not Known", typ)
		}
	}
	if Known("decimal") {
		t.Error("decimal is not in the catalog")
	}

	tests := []struct {
		typ    FieldType
		param  string
		accept bool
	}{
		{TypeString, "max_length", true},
		{TypeEmail, "max_length", true},
		{TypeEnum, "enum_values", true},
		{TypeArray, "item_type", true},
		{TypeInteger, "max_length", false},
		{TypeString, "enum_values", false},
		{TypeText, "max_length", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ)+"/"+tt.param, func(t *testing.T) {
			if got := AcceptsParameter(tt.typ, tt.param); got != tt.accept {
				t.Errorf("AcceptsParameter(%s, %s) = %v, want %v", tt.typ, tt.param, got, tt.accept)
			}
		})
	}
}
