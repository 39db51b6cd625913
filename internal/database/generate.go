package database

// Code generation for the database package:
//   go generate ./internal/database
//
// schema.sql is rebuilt from the Postgres migrations, then sqlc regenerates
// the query package from sqlc/queries.

//go:generate sh -c "cd ../.. && go run internal/database/tools/generate_schema.go"
//go:generate sh -c "cd ../.. && sqlc generate -f internal/database/sqlc/sqlc.yaml"
