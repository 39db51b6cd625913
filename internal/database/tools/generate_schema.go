package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Regenerates internal/database/sqlc/schema.sql by concatenating the
// Postgres up migrations in version order. sqlc reads the Postgres schema;
// the SQLite migrations mirror it with SQLite column types.
func main() {
	srcDir := filepath.Join("internal", "database", "migrations", "files", "postgres")
	outPath := filepath.Join("internal", "database", "sqlc", "schema.sql")

	schema, err := buildSchema(srcDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build schema: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outPath, []byte(schema), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write schema file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Generated %s from migrations\n", outPath)
}

func buildSchema(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			names = append(names, e.Name())
		}
	}
	// Migration files are zero-padded, so lexical order is version order.
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(`-- This file is auto-generated from migration files.
-- DO NOT EDIT MANUALLY. Run 'go generate ./internal/database' to regenerate.
-- Source: internal/database/migrations/files/postgres/*.up.sql

`)
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", name, err)
		}
		fmt.Fprintf(&b, "-- %s\n", name)
		b.Write(data)
	}
	return b.String(), nil
}
