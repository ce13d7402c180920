package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE statement from struct tags.
// Tables are created only if they do not exist, so a database that
// already has the table (possibly with more columns) is left alone.
func generateDDL(model any, tableName, suffix string) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)%s;",
		tableName,
		strings.Join(columns, ",\n"),
		suffix,
	)

	return ddl
}

// Mapping DDL methods
func (m Mapping) TableDDL() string {
	return generateDDL(m, m.TableName(), " WITHOUT ROWID")
}

func (m Mapping) IndexDDL() []string {
	return []string{}
}

func (m Mapping) TableName() string {
	return "mappings"
}

// Taxon DDL methods
func (tx Taxon) TableDDL() string {
	return generateDDL(tx, tx.TableName(), "")
}

func (tx Taxon) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_taxa_name_id ON taxa(name_id);",
	}
}

func (tx Taxon) TableName() string {
	return "taxa"
}

// SQLiteDDL returns all statements needed to prepare a SQLite store.
func SQLiteDDL() []string {
	var res []string
	for _, m := range AllModels() {
		g := m.(DDLGenerator)
		res = append(res, g.TableDDL())
		res = append(res, g.IndexDDL()...)
	}
	return res
}
