// Package typemap translates abstract field types into backend-native type
// tokens and attribute lists. Every abstract type resolves for every backend;
// Verify enforces that totality at registration time rather than at render
// time.
package typemap

import (
	"fmt"
	"strings"

	"github.com/ormgen/ormgen/internal/naming"
	"github.com/ormgen/ormgen/internal/schema"
)

// Backend identifies one target ORM convention.
type Backend string

const (
	Prisma     Backend = "prisma"
	Django     Backend = "django"
	SQLAlchemy Backend = "sqlalchemy"
)

// AllBackends lists the supported backends in a stable order.
var AllBackends = []Backend{Prisma, Django, SQLAlchemy}

// Known reports whether b is a supported backend identifier.
func Known(b Backend) bool {
	switch b {
	case Prisma, Django, SQLAlchemy:
		return true
	}
	return false
}

// Mapped is the backend-native translation of one field.
type Mapped struct {
	// NativeType is the backend's type token: "Int" for Prisma,
	// "IntegerField" for Django, "Integer" for SQLAlchemy.
	NativeType string
	// Attributes are backend-specific modifiers in declaration order:
	// "@id"/"@unique" attributes for Prisma, keyword arguments for the
	// Python backends.
	Attributes []string
}

// MapField translates a field for the given backend. It fails only on a
// type/backend pair outside the catalog, which Verify rules out up front.
func MapField(f schema.Field, b Backend) (Mapped, error) {
	switch b {
	case Prisma:
		return mapPrisma(f)
	case Django:
		return mapDjango(f)
	case SQLAlchemy:
		return mapSQLAlchemy(f)
	default:
		return Mapped{}, fmt.Errorf("unsupported backend %q", b)
	}
}

// Verify checks that every catalog type resolves for every backend. It is
// called once before any emission so an incomplete mapping table fails
// closed at registration, not mid-render.
func Verify() error {
	for _, b := range AllBackends {
		for _, t := range schema.AllTypes {
			f := schema.Field{Name: "probe", Type: t}
			if t == schema.TypeEnum {
				f.EnumValues = []string{"a"}
			}
			if t == schema.TypeArray {
				f.ItemType = schema.TypeString
			}
			if _, err := MapField(f, b); err != nil {
				return fmt.Errorf("unsupported type %q for backend %q: %w", t, b, err)
			}
		}
	}
	return nil
}

func mapPrisma(f schema.Field) (Mapped, error) {
	var m Mapped
	switch f.Type {
	case schema.TypeString, schema.TypeEmail:
		m.NativeType = "String"
		if f.MaxLength != nil {
			m.Attributes = append(m.Attributes, fmt.Sprintf("@db.VarChar(%d)", *f.MaxLength))
		}
	case schema.TypeText:
		m.NativeType = "String"
		m.Attributes = append(m.Attributes, "@db.Text")
	case schema.TypeInteger:
		m.NativeType = "Int"
	case schema.TypeFloat:
		m.NativeType = "Float"
	case schema.TypeBoolean:
		m.NativeType = "Boolean"
	case schema.TypeDatetime:
		m.NativeType = "DateTime"
	case schema.TypeUUID:
		m.NativeType = "String"
		m.Attributes = append(m.Attributes, "@db.Uuid")
	case schema.TypeJSON:
		m.NativeType = "Json"
	case schema.TypeArray:
		item, err := mapPrisma(schema.Field{Name: f.Name, Type: itemType(f)})
		if err != nil {
			return Mapped{}, err
		}
		m.NativeType = item.NativeType + "[]"
	case schema.TypeEnum:
		m.NativeType = naming.Pascal(f.Name)
	default:
		return Mapped{}, fmt.Errorf("no Prisma mapping for type %q", f.Type)
	}

	if f.IsPrimaryKey {
		// @id leads the attribute list by Prisma convention.
		m.Attributes = append([]string{"@id"}, m.Attributes...)
	}
	if f.IsUnique && !f.IsPrimaryKey {
		m.Attributes = append(m.Attributes, "@unique")
	}
	switch {
	case f.IsPrimaryKey && f.AutoIncrement:
		m.Attributes = append(m.Attributes, "@default(autoincrement())")
	case f.DefaultValue != nil:
		m.Attributes = append(m.Attributes,
			fmt.Sprintf("@default(%s)", FormatDefault(f.DefaultValue, f.Type, Prisma)))
	}
	return m, nil
}

func mapDjango(f schema.Field) (Mapped, error) {
	var m Mapped
	switch f.Type {
	case schema.TypeString:
		// CharField needs a bound; unbounded strings degrade to TextField.
		if f.MaxLength != nil {
			m.NativeType = "CharField"
			m.Attributes = append(m.Attributes, fmt.Sprintf("max_length=%d", *f.MaxLength))
		} else {
			m.NativeType = "TextField"
		}
	case schema.TypeText:
		m.NativeType = "TextField"
	case schema.TypeInteger:
		if f.IsPrimaryKey && f.AutoIncrement {
			m.NativeType = "AutoField"
		} else {
			m.NativeType = "IntegerField"
		}
	case schema.TypeFloat:
		m.NativeType = "FloatField"
	case schema.TypeBoolean:
		m.NativeType = "BooleanField"
	case schema.TypeDatetime:
		m.NativeType = "DateTimeField"
	case schema.TypeUUID:
		m.NativeType = "UUIDField"
	case schema.TypeJSON, schema.TypeArray:
		m.NativeType = "JSONField"
	case schema.TypeEnum:
		m.NativeType = "CharField"
		m.Attributes = append(m.Attributes,
			fmt.Sprintf("max_length=%d", maxValueLen(f.EnumValues)),
			"choices="+djangoChoices(f.EnumValues))
	case schema.TypeEmail:
		m.NativeType = "EmailField"
		if f.MaxLength != nil {
			m.Attributes = append(m.Attributes, fmt.Sprintf("max_length=%d", *f.MaxLength))
		}
	default:
		return Mapped{}, fmt.Errorf("no Django mapping for type %q", f.Type)
	}

	if f.IsPrimaryKey {
		m.Attributes = append(m.Attributes, "primary_key=True")
	}
	if f.IsUnique && !f.IsPrimaryKey {
		m.Attributes = append(m.Attributes, "unique=True")
	}
	if f.IsNullable {
		m.Attributes = append(m.Attributes, "null=True", "blank=True")
	}
	if f.DefaultValue != nil && m.NativeType != "AutoField" {
		m.Attributes = append(m.Attributes,
			"default="+FormatDefault(f.DefaultValue, f.Type, Django))
	}
	return m, nil
}

func mapSQLAlchemy(f schema.Field) (Mapped, error) {
	var m Mapped
	switch f.Type {
	case schema.TypeString, schema.TypeEmail:
		if f.MaxLength != nil {
			m.NativeType = fmt.Sprintf("String(%d)", *f.MaxLength)
		} else {
			m.NativeType = "String"
		}
	case schema.TypeText:
		m.NativeType = "Text"
	case schema.TypeInteger:
		m.NativeType = "Integer"
	case schema.TypeFloat:
		m.NativeType = "Float"
	case schema.TypeBoolean:
		m.NativeType = "Boolean"
	case schema.TypeDatetime:
		m.NativeType = "DateTime"
	case schema.TypeUUID:
		m.NativeType = "Uuid"
	case schema.TypeJSON:
		m.NativeType = "JSON"
	case schema.TypeArray:
		item, err := mapSQLAlchemy(schema.Field{Name: f.Name, Type: itemType(f)})
		if err != nil {
			return Mapped{}, err
		}
		m.NativeType = fmt.Sprintf("ARRAY(%s)", item.NativeType)
	case schema.TypeEnum:
		m.NativeType = "Enum(" + quotedList(f.EnumValues) + ")"
	default:
		return Mapped{}, fmt.Errorf("no SQLAlchemy mapping for type %q", f.Type)
	}

	if f.IsPrimaryKey {
		m.Attributes = append(m.Attributes, "primary_key=True")
	}
	if f.AutoIncrement && f.IsPrimaryKey {
		m.Attributes = append(m.Attributes, "autoincrement=True")
	}
	if f.IsUnique && !f.IsPrimaryKey {
		m.Attributes = append(m.Attributes, "unique=True")
	}
	if !f.IsNullable && !f.IsPrimaryKey {
		m.Attributes = append(m.Attributes, "nullable=False")
	}
	if f.DefaultValue != nil {
		m.Attributes = append(m.Attributes,
			"default="+FormatDefault(f.DefaultValue, f.Type, SQLAlchemy))
	}
	return m, nil
}

// itemType returns the declared array item type, defaulting to string.
func itemType(f schema.Field) schema.FieldType {
	if f.ItemType != "" {
		return f.ItemType
	}
	return schema.TypeString
}

func maxValueLen(values []string) int {
	n := 1
	for _, v := range values {
		if len(v) > n {
			n = len(v)
		}
	}
	return n
}

func djangoChoices(values []string) string {
	pairs := make([]string, len(values))
	for i, v := range values {
		pairs[i] = fmt.Sprintf("(%q, %q)", v, v)
	}
	return "[" + strings.Join(pairs, ", ") + "]"
}

func quotedList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}
