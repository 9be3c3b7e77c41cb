package codegen

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"text/template"

	"github.com/ormgen/ormgen/internal/naming"
	"github.com/ormgen/ormgen/internal/resolve"
	"github.com/ormgen/ormgen/internal/schema"
	"github.com/ormgen/ormgen/internal/typemap"
)

type prismaData struct {
	SchemaName  string
	Description string
	Models      []prismaModel
	Enums       []prismaEnum
}

type prismaModel struct {
	Name  string
	Lines []string // field, relation, and block-attribute lines in order
}

type prismaEnum struct {
	Name   string
	Values []string
}

// emitPrisma renders the whole schema as one schema.prisma document:
// preamble, one model block per table, enum blocks last.
func emitPrisma(s *schema.Schema, res *resolve.Resolution) ([]OutputUnit, error) {
	data := prismaData{SchemaName: s.Name, Description: s.Description}
	enumValues := make(map[string][]string)

	for ti := range s.Tables {
		t := &s.Tables[ti]
		model := prismaModel{Name: naming.Pascal(t.Name)}

		for _, f := range t.Fields {
			m, err := typemap.MapField(f, typemap.Prisma)
			if err != nil {
				return nil, err
			}
			typ := m.NativeType
			if f.Type == schema.TypeEnum {
				typ = prismaEnumName(t, &f, enumValues)
				if _, ok := enumValues[typ]; !ok {
					enumValues[typ] = f.EnumValues
					data.Enums = append(data.Enums, prismaEnum{Name: typ, Values: f.EnumValues})
				}
			}
			if f.IsNullable {
				typ += "?"
			}
			line := f.Name + " " + typ
			if len(m.Attributes) > 0 {
				line += " " + strings.Join(m.Attributes, " ")
			}
			model.Lines = append(model.Lines, line)
		}

		for _, v := range res.Views(t.Name) {
			model.Lines = append(model.Lines, prismaRelationLine(s, t, v))
		}

		if model.Name != t.Name {
			model.Lines = append(model.Lines, fmt.Sprintf("@@map(%q)", t.Name))
		}
		for _, idx := range t.Indexes {
			model.Lines = append(model.Lines,
				fmt.Sprintf("@@index([%s], map: %q)", strings.Join(idx.Fields, ", "), idx.Name))
		}

		data.Models = append(data.Models, model)
	}

	var buf bytes.Buffer
	if err := prismaTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing prisma template: %w", err)
	}
	return []OutputUnit{{RelativePath: "schema.prisma", Content: buf.String()}}, nil
}

// prismaEnumName picks the enum block name for a field. Same-named enum
// fields share one block only when their value sets match; a conflicting
// value set gets a table-qualified name instead of silently merging.
func prismaEnumName(t *schema.Table, f *schema.Field, seen map[string][]string) string {
	name := naming.Pascal(f.Name)
	if vals, ok := seen[name]; ok && !slices.Equal(vals, f.EnumValues) {
		name = naming.Pascal(t.Name) + naming.Pascal(f.Name)
	}
	return name
}

// prismaRelationLine renders one relationship view as a Prisma relation
// field. The owning side carries fields/references, the inverse side only
// names the relation.
func prismaRelationLine(s *schema.Schema, t *schema.Table, v resolve.View) string {
	counterpart := naming.Pascal(v.Table)

	if v.Cardinality == resolve.HasMany || v.Cardinality == resolve.ManyToMany {
		return fmt.Sprintf("%s %s[] @relation(%q)", v.Accessor, counterpart, v.Relationship)
	}

	typ := counterpart
	if fk := t.Field(v.ForeignKey); fk != nil && fk.IsNullable {
		typ += "?"
	}
	attrs := fmt.Sprintf("@relation(%q, fields: [%s], references: [%s]",
		v.Relationship, v.ForeignKey, v.ReferencedKey)
	if v.OnDelete != "" {
		attrs += ", onDelete: " + prismaAction(v.OnDelete)
	}
	if v.OnUpdate != "" {
		attrs += ", onUpdate: " + prismaAction(v.OnUpdate)
	}
	attrs += ")"
	return fmt.Sprintf("%s %s %s", v.Accessor, typ, attrs)
}

func prismaAction(a schema.CascadeAction) string {
	switch a {
	case schema.Cascade:
		return "Cascade"
	case schema.SetNull:
		return "SetNull"
	case schema.Restrict:
		return "Restrict"
	default:
		return "NoAction"
	}
}

var prismaTmpl = template.Must(template.New("prisma").Parse(`// Generated by ormgen. DO NOT EDIT.
{{- if .SchemaName}}
// Schema: {{.SchemaName}}{{if .Description}} - {{.Description}}{{end}}
{{- end}}

generator client {
  provider = "prisma-client-js"
}

datasource db {
  provider = "postgresql"
  url      = env("DATABASE_URL")
}
{{range .Models}}
model {{.Name}} {
{{- range .Lines}}
  {{.}}
{{- end}}
}
{{end}}
{{- range .Enums}}
enum {{.Name}} {
{{- range .Values}}
  {{.}}
{{- end}}
}
{{end}}`))
