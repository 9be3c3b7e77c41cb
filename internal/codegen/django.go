package codegen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/ormgen/ormgen/internal/naming"
	"github.com/ormgen/ormgen/internal/resolve"
	"github.com/ormgen/ormgen/internal/schema"
	"github.com/ormgen/ormgen/internal/typemap"
)

type djangoData struct {
	SchemaName     string
	Description    string
	ImportTimezone bool
	ImportUUID     bool
	Models         []djangoModel
}

type djangoModel struct {
	Name        string
	Description string
	TableName   string
	Fields      []string
	Indexes     []string
}

// emitDjango renders all tables as one models.py module. A foreign-key
// field is folded into its ForeignKey declaration: Django derives the
// column from the accessor, so emitting both would duplicate the column.
func emitDjango(s *schema.Schema, res *resolve.Resolution) ([]OutputUnit, error) {
	data := djangoData{SchemaName: s.Name, Description: s.Description}

	for ti := range s.Tables {
		t := &s.Tables[ti]
		model := djangoModel{
			Name:        naming.Pascal(t.Name),
			Description: t.Description,
			TableName:   t.Name,
		}

		views := res.Views(t.Name)
		fkViews := make(map[string]resolve.View)
		for _, v := range views {
			if v.Cardinality == resolve.BelongsTo && v.Owning {
				fkViews[v.ForeignKey] = v
			}
		}

		for _, f := range t.Fields {
			if v, ok := fkViews[f.Name]; ok {
				model.Fields = append(model.Fields, djangoForeignKey(&f, v))
				continue
			}
			m, err := typemap.MapField(f, typemap.Django)
			if err != nil {
				return nil, err
			}
			model.Fields = append(model.Fields,
				fmt.Sprintf("%s = models.%s(%s)", f.Name, m.NativeType, strings.Join(m.Attributes, ", ")))

			if typemap.Symbolic(f.DefaultValue) {
				switch f.DefaultValue {
				case "now()":
					data.ImportTimezone = true
				case "uuid4()":
					data.ImportUUID = true
				}
			}
		}

		for _, v := range views {
			// The source side declares a many_to_many; the inverse side is
			// reachable through related_name.
			if v.Cardinality == resolve.ManyToMany && v.Owning {
				model.Fields = append(model.Fields, fmt.Sprintf(
					"%s = models.ManyToManyField(%q, related_name=%q)",
					v.Accessor, naming.Pascal(v.Table), v.Inverse))
			}
		}

		for _, idx := range t.Indexes {
			model.Indexes = append(model.Indexes, fmt.Sprintf(
				"models.Index(fields=[%s], name=%q)", quotedPyList(idx.Fields), idx.Name))
		}

		data.Models = append(data.Models, model)
	}

	var buf bytes.Buffer
	if err := djangoTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing django template: %w", err)
	}
	return []OutputUnit{{RelativePath: "models.py", Content: buf.String()}}, nil
}

func djangoForeignKey(f *schema.Field, v resolve.View) string {
	target := naming.Pascal(v.Table)
	if v.SelfRef {
		target = "self"
	}
	args := []string{
		fmt.Sprintf("%q", target),
		"on_delete=" + djangoAction(v.OnDelete),
		fmt.Sprintf("db_column=%q", v.ForeignKey),
		fmt.Sprintf("related_name=%q", v.Inverse),
	}
	if f.IsNullable || v.OnDelete == schema.SetNull {
		args = append(args, "null=True", "blank=True")
	}
	return fmt.Sprintf("%s = models.ForeignKey(%s)", v.Accessor, strings.Join(args, ", "))
}

func djangoAction(a schema.CascadeAction) string {
	switch a {
	case schema.SetNull:
		return "models.SET_NULL"
	case schema.Restrict:
		return "models.RESTRICT"
	case schema.NoAction:
		return "models.DO_NOTHING"
	default:
		return "models.CASCADE"
	}
}

func quotedPyList(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = fmt.Sprintf("%q", it)
	}
	return strings.Join(quoted, ", ")
}

var djangoTmpl = template.Must(template.New("django").Parse(`# Generated by ormgen. DO NOT EDIT.
{{- if .SchemaName}}
# Schema: {{.SchemaName}}{{if .Description}} - {{.Description}}{{end}}
{{- end}}
from django.db import models
{{- if .ImportTimezone}}
from django.utils import timezone
{{- end}}
{{- if .ImportUUID}}
import uuid
{{- end}}
{{range .Models}}

class {{.Name}}(models.Model):
{{- if .Description}}
    """{{.Description}}"""
{{- end}}
{{- range .Fields}}
    {{.}}
{{- end}}

    class Meta:
        db_table = "{{.TableName}}"
{{- if .Indexes}}
        indexes = [
{{- range .Indexes}}
            {{.}},
{{- end}}
        ]
{{- end}}
{{end}}`))
