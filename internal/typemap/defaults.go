package typemap

import (
	"fmt"
	"strings"

	"github.com/ormgen/ormgen/internal/schema"
)

// Symbolic reports whether a default value is a symbolic call token rather
// than a literal. The rule is purely syntactic: a string with a trailing
// "()" is symbolic, anything else is a literal coerced to the field's type.
func Symbolic(value any) bool {
	s, ok := value.(string)
	return ok && strings.HasSuffix(s, "()")
}

// symbolicDefaults maps the well-known call tokens to each backend's own
// expression syntax. Unknown tokens pass through unchanged for Prisma and
// lose their parens for the Python backends, where a callable reference is
// expected.
var symbolicDefaults = map[string]map[Backend]string{
	"now()": {
		Prisma:     "now()",
		Django:     "timezone.now",
		SQLAlchemy: "datetime.utcnow",
	},
	"uuid4()": {
		Prisma:     "uuid()",
		Django:     "uuid.uuid4",
		SQLAlchemy: "uuid.uuid4",
	},
}

// FormatDefault renders a default value in the backend's literal/expression
// syntax.
func FormatDefault(value any, t schema.FieldType, b Backend) string {
	if Symbolic(value) {
		token := value.(string)
		if byBackend, ok := symbolicDefaults[token]; ok {
			return byBackend[b]
		}
		if b == Prisma {
			return token
		}
		return strings.TrimSuffix(token, "()")
	}

	switch v := value.(type) {
	case bool:
		return formatBool(v, b)
	case string:
		switch t {
		case schema.TypeBoolean:
			return formatBool(v == "true", b)
		case schema.TypeInteger, schema.TypeFloat:
			return v
		case schema.TypeEnum:
			// Prisma enum defaults are bare identifiers, not strings.
			if b == Prisma {
				return v
			}
			return fmt.Sprintf("%q", v)
		default:
			return fmt.Sprintf("%q", v)
		}
	case float64:
		// JSON numbers decode as float64; keep integers undecorated.
		if v == float64(int64(v)) && t == schema.TypeInteger {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case int:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatBool(v bool, b Backend) string {
	if b == Prisma {
		if v {
			return "true"
		}
		return "false"
	}
	if v {
		return "True"
	}
	return "False"
}
