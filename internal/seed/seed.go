// Package seed loads reference data (roles, payment methods, categories,
// products and tables) from a YAML file. Applying the same file twice
// leaves the database unchanged.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// File is the document layout of a seed file.
type File struct {
	Roles          []string  `yaml:"roles"`
	PaymentMethods []string  `yaml:"metodos_pago"`
	Categories     []string  `yaml:"categorias"`
	Products       []Product `yaml:"productos"`
	Tables         []Table   `yaml:"mesas"`
}

type Product struct {
	Nombre      string `yaml:"nombre"`
	Descripcion string `yaml:"descripcion,omitempty"`
	Precio      string `yaml:"precio"`
	Stock       int    `yaml:"stock"`
	Categoria   string `yaml:"categoria,omitempty"`
}

type Table struct {
	Numero    int `yaml:"numero"`
	Capacidad int `yaml:"capacidad"`
}

// Result counts the rows Apply inserted.
type Result struct {
	Roles          int
	PaymentMethods int
	Categories     int
	Products       int
	Tables         int
}

func Load(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a seed document, rejecting unknown keys.
func Parse(r io.Reader) (File, error) {
	var out File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("parse seed: %w", err)
	}
	for i, p := range out.Products {
		if strings.TrimSpace(p.Nombre) == "" {
			return File{}, fmt.Errorf("parse seed: producto %d has no nombre", i)
		}
		if _, err := decimal.NewFromString(p.Precio); err != nil {
			return File{}, fmt.Errorf("parse seed: producto %q: precio %q: %w", p.Nombre, p.Precio, err)
		}
	}
	for _, t := range out.Tables {
		if t.Numero <= 0 || t.Capacidad <= 0 {
			return File{}, fmt.Errorf("parse seed: mesa %d needs positive numero and capacidad", t.Numero)
		}
	}
	return out, nil
}

// Apply inserts whatever rows of f are missing, in one transaction.
// Existing rows are matched by name (tables by numero_mesa) and left as
// they are.
func Apply(ctx context.Context, db *sql.DB, f File) (Result, error) {
	var res Result
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return res, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, name := range f.Roles {
		added, _, err := ensure(ctx, tx, "Roles", "id_rol", "nombre_rol", name)
		if err != nil {
			return res, err
		}
		res.Roles += added
	}
	for _, name := range f.PaymentMethods {
		added, _, err := ensure(ctx, tx, "Metodos_Pago", "id_metodo_pago", "nombre", name)
		if err != nil {
			return res, err
		}
		res.PaymentMethods += added
	}
	names := append([]string{}, f.Categories...)
	for _, p := range f.Products {
		if p.Categoria != "" {
			names = append(names, p.Categoria)
		}
	}
	categories := map[string]int64{}
	for _, name := range names {
		if _, seen := categories[name]; seen {
			continue
		}
		added, id, err := ensure(ctx, tx, "Categorias_Producto", "id_categoria", "nombre", name)
		if err != nil {
			return res, err
		}
		res.Categories += added
		categories[name] = id
	}
	for _, p := range f.Products {
		added, err := ensureProduct(ctx, tx, p, categories)
		if err != nil {
			return res, err
		}
		res.Products += added
	}
	for _, t := range f.Tables {
		var one int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM Mesas WHERE numero_mesa = ?", t.Numero).Scan(&one)
		switch {
		case err == nil:
			continue
		case !errors.Is(err, sql.ErrNoRows):
			return res, err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO Mesas (numero_mesa, capacidad, estado, currentGuests) VALUES (?, ?, 'disponible', 0)",
			t.Numero, t.Capacidad); err != nil {
			return res, fmt.Errorf("seed mesa %d: %w", t.Numero, err)
		}
		res.Tables++
	}

	if err := tx.Commit(); err != nil {
		return Result{}, err
	}
	return res, nil
}

// ensure returns the id of the row of table whose column equals value,
// inserting it first when missing. added is 1 when a row was inserted.
func ensure(ctx context.Context, tx *sql.Tx, table, idCol, col, value string) (added int, id int64, err error) {
	value = strings.TrimSpace(value)
	err = tx.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", idCol, table, col), value).Scan(&id)
	if err == nil {
		return 0, id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, 0, err
	}
	r, err := tx.ExecContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (?)", table, col), value)
	if err != nil {
		return 0, 0, fmt.Errorf("seed %s %q: %w", table, value, err)
	}
	id, err = r.LastInsertId()
	return 1, id, err
}

func ensureProduct(ctx context.Context, tx *sql.Tx, p Product, categories map[string]int64) (int, error) {
	var one int
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM Productos WHERE nombre = ?", p.Nombre).Scan(&one)
	if err == nil {
		return 0, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	var category *int64
	if p.Categoria != "" {
		id := categories[p.Categoria]
		category = &id
	}
	var desc *string
	if p.Descripcion != "" {
		desc = &p.Descripcion
	}
	price, err := decimal.NewFromString(p.Precio)
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO Productos (nombre, descripcion, precio, stock, id_categoria) VALUES (?, ?, ?, ?, ?)",
		p.Nombre, desc, price, p.Stock, category); err != nil {
		return 0, fmt.Errorf("seed producto %q: %w", p.Nombre, err)
	}
	return 1, nil
}
