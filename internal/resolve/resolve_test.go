package resolve

import (
	"errors"
	"testing"

	"github.com/ormgen/ormgen/internal/schema"
)

func blogSchema() *schema.Schema {
	return &schema.Schema{
		Name: "blog",
		Tables: []schema.Table{
			{
				Name: "users",
				Fields: []schema.Field{
					{Name: "id", Type: schema.TypeInteger, IsPrimaryKey: true, AutoIncrement: true},
				},
			},
			{
				Name: "posts",
				Fields: []schema.Field{
					{Name: "id", Type: schema.TypeInteger, IsPrimaryKey: true, AutoIncrement: true},
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

func TestOneToMany(t *testing.T) {
	res, err := Relationships(blogSchema())
	if err != nil {
		t.Fatalf("Relationships: %v", err)
	}

	users := res.Views("users")
	if len(users) != 1 {
		t.Fatalf("users views = %d, want 1", len(users))
	}
	u := users[0]
	if u.Cardinality != HasMany {
		t.Errorf("users cardinality = %s, want has_many", u.Cardinality)
	}
	if u.Accessor != "posts" {
		t.Errorf("users accessor = %q, want posts", u.Accessor)
	}
	if u.Owning {
		t.Error("the one side must not own the foreign key")
	}

	posts := res.Views("posts")
	if len(posts) != 1 {
		t.Fatalf("posts views = %d, want 1", len(posts))
	}
	p := posts[0]
	if p.Cardinality != BelongsTo {
		t.Errorf("posts cardinality = %s, want belongs_to", p.Cardinality)
	}
	if p.Accessor != "user" {
		t.Errorf("posts accessor = %q, want user", p.Accessor)
	}
	if !p.Owning {
		t.Error("the many side owns the foreign key")
	}

	// Both sides see the same join pair.
	if u.ForeignKey != "author_id" || p.ForeignKey != "author_id" {
		t.Errorf("foreign keys = %q/%q, want author_id on both sides", u.ForeignKey, p.ForeignKey)
	}
	if u.ReferencedKey != "id" || p.ReferencedKey != "id" {
		t.Errorf("referenced keys = %q/%q, want id on both sides", u.ReferencedKey, p.ReferencedKey)
	}

	// Each side's inverse is the other side's accessor.
	if u.Inverse != p.Accessor || p.Inverse != u.Accessor {
		t.Errorf("inverse mismatch: %q/%q vs %q/%q", u.Inverse, p.Accessor, p.Inverse, u.Accessor)
	}
}

func TestManyToOneMirrorsOneToMany(t *testing.T) {
	s := blogSchema()
	s.Relationships[0] = schema.Relationship{
		Name:       "user_posts",
		Kind:       schema.ManyToOne,
		From:       "posts",
		To:         "users",
		ForeignKey: "author_id",
	}
	res, err := Relationships(s)
	if err != nil {
		t.Fatalf("Relationships: %v", err)
	}

	p := res.Views("posts")[0]
	if p.Cardinality != BelongsTo || !p.Owning || p.Accessor != "user" {
		t.Errorf("posts view = %+v, want owning belongs_to %q", p, "user")
	}
	u := res.Views("users")[0]
	if u.Cardinality != HasMany || u.Accessor != "posts" {
		t.Errorf("users view = %+v, want has_many %q", u, "posts")
	}
	if p.ReferencedKey != "id" {
		t.Errorf("referenced key = %q, want the default id", p.ReferencedKey)
	}
}

func TestDeclaredAccessorsOverrideDefaults(t *testing.T) {
	s := blogSchema()
	s.Relationships[0].FieldName = "articles"
	s.Relationships[0].RelatedFieldName = "author"

	res, err := Relationships(s)
	if err != nil {
		t.Fatalf("Relationships: %v", err)
	}
	if got := res.Views("users")[0].Accessor; got != "articles" {
		t.Errorf("users accessor = %q, want articles", got)
	}
	if got := res.Views("posts")[0].Accessor; got != "author" {
		t.Errorf("posts accessor = %q, want author", got)
	}
	if got := res.Views("users")[0].Inverse; got != "author" {
		t.Errorf("users inverse = %q, want author", got)
	}
}

func TestSelfReferencingClassification(t *testing.T) {
	s := &schema.Schema{
		Tables: []schema.Table{{
			Name: "employees",
			Fields: []schema.Field{
				{Name: "id", Type: schema.TypeInteger, IsPrimaryKey: true},
				{Name: "manager_id", Type: schema.TypeInteger, IsNullable: true},
			},
		}},
		Relationships: []schema.Relationship{{
			Name:       "manager_reports",
			Kind:       schema.OneToMany, // reclassified because source == target
			From:       "employees",
			To:         "employees",
			ForeignKey: "manager_id",
		}},
	}

	res, err := Relationships(s)
	if err != nil {
		t.Fatalf("Relationships: %v", err)
	}

	views := res.Views("employees")
	if len(views) != 2 {
		t.Fatalf("expected both sides on the same table, got %d views", len(views))
	}
	for _, v := range views {
		if v.Kind != schema.SelfReferencing || !v.SelfRef {
			t.Errorf("view %q not classified self-referencing", v.Accessor)
		}
	}

	// Accessors derive from the relationship name, never the table name.
	if views[0].Accessor != "manager_reports" || views[0].Cardinality != HasMany {
		t.Errorf("collection side = %q (%s), want manager_reports has_many",
			views[0].Accessor, views[0].Cardinality)
	}
	if views[1].Accessor != "manager_report" || views[1].Cardinality != BelongsTo {
		t.Errorf("reference side = %q (%s), want manager_report belongs_to",
			views[1].Accessor, views[1].Cardinality)
	}
}

func TestManyToMany(t *testing.T) {
	s := &schema.Schema{
		Tables: []schema.Table{
			{Name: "posts", Fields: []schema.Field{{Name: "id", Type: schema.TypeInteger, IsPrimaryKey: true}}},
			{Name: "tags", Fields: []schema.Field{{Name: "id", Type: schema.TypeInteger, IsPrimaryKey: true}}},
		},
		Relationships: []schema.Relationship{{
			Name: "post_tags",
			Kind: schema.ManyToMany,
			From: "posts",
			To:   "tags",
		}},
	}

	res, err := Relationships(s)
	if err != nil {
		t.Fatalf("Relationships: %v", err)
	}

	p := res.Views("posts")[0]
	g := res.Views("tags")[0]
	if p.Cardinality != ManyToMany || g.Cardinality != ManyToMany {
		t.Errorf("cardinalities = %s/%s, want many_to_many on both sides", p.Cardinality, g.Cardinality)
	}
	if !p.Owning || g.Owning {
		t.Error("the declaring side owns a many_to_many")
	}
	if p.Accessor != "post_tags" || g.Accessor != "post_tags" {
		t.Errorf("accessors = %q/%q, want post_tags on both sides", p.Accessor, g.Accessor)
	}
}

func TestAmbiguousAccessor(t *testing.T) {
	s := blogSchema()
	// A second relationship into posts generating the same "user" accessor
	// on the posts side. The users side is disambiguated by FieldName so the
	// collision is reported for posts alone.
	s.Tables[1].Fields = append(s.Tables[1].Fields,
		schema.Field{Name: "editor_id", Type: schema.TypeInteger})
	s.Relationships = append(s.Relationships, schema.Relationship{
		Name:       "edited_posts",
		Kind:       schema.OneToMany,
		From:       "users",
		To:         "posts",
		ForeignKey: "editor_id",
		FieldName:  "edited_posts",
	})

	_, err := Relationships(s)
	var amb *AmbiguousAccessorError
	if !errors.As(err, &amb) {
		t.Fatalf("expected AmbiguousAccessorError, got %v", err)
	}
	if amb.Table != "posts" || amb.Accessor != "user" {
		t.Errorf("collision = %s.%s, want posts.user", amb.Table, amb.Accessor)
	}
	if amb.Relationships != [2]string{"user_posts", "edited_posts"} {
		t.Errorf("relationships = %v", amb.Relationships)
	}
}
