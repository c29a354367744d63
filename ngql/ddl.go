package ngql

import (
	"strconv"
	"strings"

	"github.com/owl-K/nebula-carina/schema"
	"github.com/owl-K/nebula-carina/schema/field"
)

// SpaceOptions are the settings of CREATE SPACE.
type SpaceOptions struct {
	VIDType       string // e.g. FIXED_STRING(32)
	PartitionNum  int
	ReplicaFactor int
	Comment       string
}

// CreateSpace renders CREATE SPACE IF NOT EXISTS.
func CreateSpace(name string, opts SpaceOptions) string {
	var settings []string
	if opts.PartitionNum > 0 {
		settings = append(settings, "partition_num = "+strconv.Itoa(opts.PartitionNum))
	}
	if opts.ReplicaFactor > 0 {
		settings = append(settings, "replica_factor = "+strconv.Itoa(opts.ReplicaFactor))
	}
	if opts.VIDType != "" {
		settings = append(settings, "vid_type = "+opts.VIDType)
	}
	s := "CREATE SPACE IF NOT EXISTS " + field.QuoteIdent(name)
	if len(settings) > 0 {
		s += "(" + strings.Join(settings, ", ") + ")"
	}
	if opts.Comment != "" {
		s += " COMMENT = " + field.Quote(opts.Comment)
	}
	return s
}

// Use renders USE space.
func Use(space string) string {
	return "USE " + field.QuoteIdent(space)
}

// CreateSchema renders CREATE TAG or CREATE EDGE for a compiled type.
func CreateSchema(t *schema.Type, ifNotExists bool) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	b.WriteString(t.Kind().String())
	b.WriteByte(' ')
	if ifNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(field.QuoteIdent(t.DBName()))
	b.WriteByte('(')
	b.WriteString(strings.Join(t.Definitions(), ", "))
	b.WriteByte(')')
	if c := t.Comment(); c != "" {
		b.WriteString(" COMMENT = ")
		b.WriteString(field.Quote(c))
	}
	return b.String()
}

// AlterAdd renders ALTER ... ADD for the given property definitions.
func AlterAdd(kind schema.Kind, name string, defs ...string) string {
	return alter(kind, name, "ADD", defs)
}

// AlterChange renders ALTER ... CHANGE for the given property definitions.
func AlterChange(kind schema.Kind, name string, defs ...string) string {
	return alter(kind, name, "CHANGE", defs)
}

// AlterDrop renders ALTER ... DROP for the given property names.
func AlterDrop(kind schema.Kind, name string, props ...string) string {
	idents := make([]string, len(props))
	for i, p := range props {
		idents[i] = field.QuoteIdent(p)
	}
	return alter(kind, name, "DROP", idents)
}

func alter(kind schema.Kind, name, action string, items []string) string {
	return "ALTER " + kind.String() + " " + field.QuoteIdent(name) + " " + action + " (" + strings.Join(items, ", ") + ")"
}

// DropSchema renders DROP TAG or DROP EDGE.
func DropSchema(kind schema.Kind, name string, ifExists bool) string {
	s := "DROP " + kind.String() + " "
	if ifExists {
		s += "IF EXISTS "
	}
	return s + field.QuoteIdent(name)
}

// Show renders SHOW TAGS or SHOW EDGES.
func Show(kind schema.Kind) string {
	return "SHOW " + kind.String() + "S"
}

// Describe renders DESCRIBE TAG or DESCRIBE EDGE.
func Describe(kind schema.Kind, name string) string {
	return "DESCRIBE " + kind.String() + " " + field.QuoteIdent(name)
}
