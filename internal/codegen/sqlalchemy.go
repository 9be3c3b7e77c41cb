package codegen

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/ormgen/ormgen/internal/naming"
	"github.com/ormgen/ormgen/internal/resolve"
	"github.com/ormgen/ormgen/internal/schema"
	"github.com/ormgen/ormgen/internal/typemap"
)

type sqlaModule struct {
	SchemaName     string
	ClassName      string
	TableName      string
	Description    string
	CoreImports    string // names imported from sqlalchemy
	ImportDatetime bool
	ImportUUID     bool
	Columns        []string
	Relations      []string
	Indexes        []string
}

// emitSQLAlchemy renders declarative-base classes, one module per table,
// plus the shared base module. Each table unit is an independent document.
func emitSQLAlchemy(s *schema.Schema, res *resolve.Resolution) ([]OutputUnit, error) {
	units := []OutputUnit{{RelativePath: "base.py", Content: sqlaBase}}

	for ti := range s.Tables {
		t := &s.Tables[ti]
		mod, err := buildSQLAModule(s, t, res)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := sqlaTmpl.Execute(&buf, mod); err != nil {
			return nil, fmt.Errorf("executing sqlalchemy template: %w", err)
		}
		units = append(units, OutputUnit{
			RelativePath: naming.Snake(t.Name) + ".py",
			Content:      buf.String(),
		})
	}
	return units, nil
}

func buildSQLAModule(s *schema.Schema, t *schema.Table, res *resolve.Resolution) (*sqlaModule, error) {
	mod := &sqlaModule{
		SchemaName:  s.Name,
		ClassName:   naming.Pascal(t.Name),
		TableName:   t.Name,
		Description: t.Description,
	}

	coreImports := map[string]bool{"Column": true}
	views := res.Views(t.Name)
	fkViews := make(map[string]resolve.View)
	for _, v := range views {
		if v.Cardinality == resolve.BelongsTo && v.Owning {
			fkViews[v.ForeignKey] = v
		}
	}

	for _, f := range t.Fields {
		m, err := typemap.MapField(f, typemap.SQLAlchemy)
		if err != nil {
			return nil, err
		}
		for _, name := range sqlaTypeNames(m.NativeType) {
			coreImports[name] = true
		}

		args := []string{m.NativeType}
		if v, ok := fkViews[f.Name]; ok {
			coreImports["ForeignKey"] = true
			fk := fmt.Sprintf("ForeignKey(%q", v.Table+"."+v.ReferencedKey)
			if v.OnDelete != "" {
				fk += fmt.Sprintf(", ondelete=%q", sqlaAction(v.OnDelete))
			}
			if v.OnUpdate != "" {
				fk += fmt.Sprintf(", onupdate=%q", sqlaAction(v.OnUpdate))
			}
			fk += ")"
			args = append(args, fk)
		}
		args = append(args, m.Attributes...)
		mod.Columns = append(mod.Columns,
			fmt.Sprintf("%s = Column(%s)", f.Name, strings.Join(args, ", ")))

		if typemap.Symbolic(f.DefaultValue) {
			switch f.DefaultValue {
			case "now()":
				mod.ImportDatetime = true
			case "uuid4()":
				mod.ImportUUID = true
			}
		}
	}

	for _, v := range views {
		mod.Relations = append(mod.Relations, sqlaRelation(v))
	}

	for _, idx := range t.Indexes {
		coreImports["Index"] = true
		mod.Indexes = append(mod.Indexes,
			fmt.Sprintf("Index(%q, %s)", idx.Name, quotedPyList(idx.Fields)))
	}

	names := make([]string, 0, len(coreImports))
	for n := range coreImports {
		names = append(names, n)
	}
	sort.Strings(names)
	mod.CoreImports = strings.Join(names, ", ")
	return mod, nil
}

// sqlaRelation renders one relationship view as a relationship() accessor.
func sqlaRelation(v resolve.View) string {
	args := []string{
		fmt.Sprintf("%q", naming.Pascal(v.Table)),
		fmt.Sprintf("back_populates=%q", v.Inverse),
	}
	if v.Cardinality == resolve.ManyToMany {
		args = append(args, fmt.Sprintf("secondary=%q", naming.Snake(v.Relationship)))
	}
	if v.SelfRef && v.Cardinality == resolve.BelongsTo {
		args = append(args, fmt.Sprintf("remote_side=[%s]", v.ReferencedKey))
	}
	return fmt.Sprintf("%s = relationship(%s)", v.Accessor, strings.Join(args, ", "))
}

func sqlaAction(a schema.CascadeAction) string {
	switch a {
	case schema.Cascade:
		return "CASCADE"
	case schema.SetNull:
		return "SET NULL"
	case schema.Restrict:
		return "RESTRICT"
	default:
		return "NO ACTION"
	}
}

// sqlaTypeNames extracts the sqlalchemy names referenced by a native type
// expression, e.g. "ARRAY(Integer)" needs both ARRAY and Integer.
func sqlaTypeNames(expr string) []string {
	base, rest, found := strings.Cut(expr, "(")
	names := []string{base}
	if found && base == "ARRAY" {
		names = append(names, sqlaTypeNames(strings.TrimSuffix(rest, ")"))...)
	}
	return names
}

const sqlaBase = `# Generated by ormgen. DO NOT EDIT.
from sqlalchemy.orm import declarative_base

Base = declarative_base()
`

var sqlaTmpl = template.Must(template.New("sqlalchemy").Parse(`# Generated by ormgen. DO NOT EDIT.
{{- if .SchemaName}}
# Schema: {{.SchemaName}}
{{- end}}
{{- if .ImportDatetime}}
from datetime import datetime
{{- end}}
{{- if .ImportUUID}}
import uuid
{{- end}}
from sqlalchemy import {{.CoreImports}}
from sqlalchemy.orm import relationship

from .base import Base


class {{.ClassName}}(Base):
{{- if .Description}}
    """{{.Description}}"""
{{- end}}
    __tablename__ = "{{.TableName}}"

{{- range .Columns}}
    {{.}}
{{- end}}
{{- if .Relations}}

{{- range .Relations}}
    {{.}}
{{- end}}
{{- end}}
{{- if .Indexes}}

    __table_args__ = (
{{- range .Indexes}}
        {{.}},
{{- end}}
    )
{{- end}}
`))
