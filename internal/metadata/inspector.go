package metadata

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"stockview/internal/core/types"
)

var (
	decimalType  = reflect.TypeOf(decimal.Decimal{})
	quantityType = reflect.TypeOf(types.Quantity{})
)

// Inspect analyzes a view-model struct and returns its EntityDef.
func Inspect(entity any, name string, entityType EntityType) EntityDef {
	t := reflect.TypeOf(entity)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if name == "" {
		name = t.Name()
	}

	def := EntityDef{
		Name:   name,
		Label:  guessLabel(t.Name()),
		Type:   entityType,
		Fields: make([]FieldDef, 0),
	}

	inspectStruct(t, &def)

	return def
}

func inspectStruct(t reflect.Type, def *EntityDef) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.PkgPath != "" { // unexported
			continue
		}

		if field.Anonymous {
			inspectStruct(field.Type, def)
			continue
		}

		// Slice of structs is a nested part
		if field.Type.Kind() == reflect.Slice && field.Type.Elem().Kind() == reflect.Struct {
			def.Parts = append(def.Parts, PartDef{
				Name:    jsonName(field),
				Label:   guessLabel(field.Name),
				Columns: inspectColumns(field.Type.Elem()),
			})
			continue
		}

		fDef := FieldDef{
			Name:  jsonName(field),
			Label: guessLabel(field.Name),
		}
		mapFieldType(&fDef, field)

		if fDef.Name == "-" {
			continue
		}
		def.Fields = append(def.Fields, fDef)
	}
}

func inspectColumns(t reflect.Type) []FieldDef {
	cols := make([]FieldDef, 0)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}

		fDef := FieldDef{
			Name:  jsonName(field),
			Label: guessLabel(field.Name),
		}
		mapFieldType(&fDef, field)
		if fDef.Name == "-" {
			continue
		}
		cols = append(cols, fDef)
	}
	return cols
}

func mapFieldType(def *FieldDef, field reflect.StructField) {
	t := field.Type

	switch t {
	case decimalType:
		def.Type = TypeMoney
		def.Scale = 2
		return
	case quantityType:
		def.Type = TypeNumber
		def.Scale = 4
		return
	}

	switch t.Kind() {
	case reflect.String:
		def.Type = TypeString
		// "WarehouseID" -> reference to "warehouse"
		name := field.Name
		if name != "ID" && strings.HasSuffix(name, "ID") {
			def.Type = TypeReference
			def.ReferenceType = strings.ToLower(strings.TrimSuffix(name, "ID"))
		}
		if strings.HasSuffix(name, "Date") || name == "Date" {
			def.Type = TypeDate
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		def.Type = TypeInteger
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		def.Type = TypeInteger
	case reflect.Float32, reflect.Float64:
		def.Type = TypeNumber
		def.Scale = 2
		if strings.Contains(field.Name, "Quantity") {
			def.Scale = 3
		}
	case reflect.Bool:
		def.Type = TypeBoolean
	default:
		def.Type = TypeString // fallback
	}
}

func jsonName(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("json"); ok {
		parts := strings.Split(tag, ",")
		if parts[0] != "" {
			return parts[0]
		}
	}
	runes := []rune(field.Name)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// guessLabel splits a CamelCase identifier into words: "ScheduledDate" -> "Scheduled Date".
// Acronyms stay together: "WarehouseID" -> "Warehouse ID".
func guessLabel(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (nextLower && unicode.IsUpper(runes[i-1])) {
				b.WriteByte(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
