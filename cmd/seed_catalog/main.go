// seed_catalog genera un script SQL para poblar productos, ingredientes y recetas
// a partir de un CSV exportado de la hoja de cálculo de la heladería.
//
// Uso: go run ./cmd/seed_catalog [-out ruta.sql] [catalogo.csv]
// Por defecto lee catalogo.csv del directorio actual. El CSV puede venir en UTF-8 o
// Latin-1 (export de Excel en Windows); se detecta solo.
//
// Columnas (una fila por línea de receta; un producto sin ingredientes deja vacía la columna ingrediente):
//
//	producto,precio_publico,tipo,vaso,volumen_onzas,ingrediente,costo,calorias,inventario,tipo_ingrediente,sabor
package main

import (
	"bytes"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type product struct {
	name     string
	price    decimal.Decimal
	kind     string
	cup      string
	volumeOz decimal.Decimal
}

type ingredient struct {
	name      string
	cost      decimal.Decimal
	calories  int
	inventory int
	kind      string
	flavor    string
}

type recipeLine struct {
	product, ingredient string
}

// catalog filas deduplicadas por nombre, en orden de aparición.
type catalog struct {
	products    []product
	ingredients []ingredient
	recipes     []recipeLine
}

func main() {
	outFlag := flag.String("out", "", "archivo SQL de salida")
	flag.Parse()

	csvPath := "catalogo.csv"
	if flag.NArg() > 0 {
		csvPath = flag.Arg(0)
	}
	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}

	cat, err := parseCatalog(decodeText(raw))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	outPath := *outFlag
	if outPath == "" {
		outPath = filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "seeds", "catalogo_seed.sql")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Crear directorio: %v\n", err)
		os.Exit(1)
	}
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, cat, filepath.Base(csvPath)); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d productos, %d ingredientes, %d relaciones\n",
		outPath, len(cat.products), len(cat.ingredients), len(cat.recipes))
}

// decodeText devuelve un reader UTF-8: si los bytes no son UTF-8 válido se asume ISO-8859-1.
func decodeText(raw []byte) io.Reader {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return bytes.NewReader(raw)
	}
	return transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder())
}

func parseCatalog(r io.Reader) (*catalog, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("encabezado: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := col["producto"]; !ok {
		return nil, fmt.Errorf("falta la columna producto")
	}
	get := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	cat := &catalog{}
	seenProducts := map[string]bool{}
	seenIngredients := map[string]bool{}
	seenRecipes := map[recipeLine]bool{}
	line := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		pname := get(rec, "producto")
		if pname == "" {
			continue
		}
		if !seenProducts[pname] {
			price, err := parseDecimal(get(rec, "precio_publico"))
			if err != nil {
				return nil, fmt.Errorf("línea %d precio_publico: %w", line, err)
			}
			vol, err := parseDecimal(get(rec, "volumen_onzas"))
			if err != nil {
				return nil, fmt.Errorf("línea %d volumen_onzas: %w", line, err)
			}
			seenProducts[pname] = true
			cat.products = append(cat.products, product{name: pname, price: price, kind: get(rec, "tipo"), cup: get(rec, "vaso"), volumeOz: vol})
		}

		iname := get(rec, "ingrediente")
		if iname == "" {
			continue
		}
		if !seenIngredients[iname] {
			cost, err := parseDecimal(get(rec, "costo"))
			if err != nil {
				return nil, fmt.Errorf("línea %d costo: %w", line, err)
			}
			calories, err := parseInt(get(rec, "calorias"))
			if err != nil {
				return nil, fmt.Errorf("línea %d calorias: %w", line, err)
			}
			inventory, err := parseInt(get(rec, "inventario"))
			if err != nil {
				return nil, fmt.Errorf("línea %d inventario: %w", line, err)
			}
			seenIngredients[iname] = true
			cat.ingredients = append(cat.ingredients, ingredient{
				name: iname, cost: cost, calories: calories, inventory: inventory,
				kind: get(rec, "tipo_ingrediente"), flavor: get(rec, "sabor"),
			})
		}
		rl := recipeLine{product: pname, ingredient: iname}
		if !seenRecipes[rl] {
			seenRecipes[rl] = true
			cat.recipes = append(cat.recipes, rl)
		}
	}
	return cat, nil
}

// writeSQL idempotente: los productos e ingredientes se insertan solo si no existe uno con
// el mismo nombre y las relaciones usan ON CONFLICT sobre (producto_id, ingrediente_id).
func writeSQL(w io.Writer, cat *catalog, source string) error {
	var b strings.Builder
	b.WriteString("-- Catálogo de la heladería\n")
	fmt.Fprintf(&b, "-- Generado desde %s\n\n", source)

	b.WriteString("-- 1. Productos\n")
	for _, p := range cat.products {
		fmt.Fprintf(&b, "INSERT INTO productos (nombre, precio_publico, tipo, vaso, volumen_onzas)\n")
		fmt.Fprintf(&b, "SELECT '%s', %s, %s, %s, %s\n", escapeSQL(p.name), p.price.StringFixed(2), nullable(p.kind), nullable(p.cup), p.volumeOz.StringFixed(2))
		fmt.Fprintf(&b, "WHERE NOT EXISTS (SELECT 1 FROM productos WHERE nombre = '%s');\n", escapeSQL(p.name))
	}

	b.WriteString("\n-- 2. Ingredientes\n")
	for _, i := range cat.ingredients {
		fmt.Fprintf(&b, "INSERT INTO ingredientes (nombre, precio, calorias, inventario, tipo, sabor)\n")
		fmt.Fprintf(&b, "SELECT '%s', %s, %d, %d, %s, %s\n", escapeSQL(i.name), i.cost.StringFixed(2), i.calories, i.inventory, nullable(i.kind), nullable(i.flavor))
		fmt.Fprintf(&b, "WHERE NOT EXISTS (SELECT 1 FROM ingredientes WHERE nombre = '%s');\n", escapeSQL(i.name))
	}

	b.WriteString("\n-- 3. Relaciones producto-ingrediente\n")
	for _, r := range cat.recipes {
		fmt.Fprintf(&b, "INSERT INTO producto_ingrediente (producto_id, ingrediente_id)\n")
		fmt.Fprintf(&b, "SELECT p.id, i.id FROM productos p, ingredientes i WHERE p.nombre = '%s' AND i.nombre = '%s'\n",
			escapeSQL(r.product), escapeSQL(r.ingredient))
		b.WriteString("ON CONFLICT (producto_id, ingrediente_id) DO NOTHING;\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	// Excel en español exporta la coma como separador decimal
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func nullable(s string) string {
	if s == "" {
		return "NULL"
	}
	return "'" + escapeSQL(s) + "'"
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
