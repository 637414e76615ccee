// dbcheck inspects the legacy store's database directly: table
// existence, row counts and column layout for the catalog tables. It is
// a diagnostics tool for operators chasing a discrepancy between what
// the store's endpoints return and what is actually stored.
package main

import (
	"os"
	"time"

	"shopadmin/internal/db"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"gorm.io/gorm"
)

var catalogTables = []string{"products", "categories", "brands", "orders", "orderdetails"}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	columns := pflag.BoolP("columns", "c", false, "list each table's columns")
	tables := pflag.StringSliceP("tables", "t", catalogTables, "tables to inspect")
	pflag.Parse()

	database, err := db.NewDatabase()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	failed := false
	for _, table := range *tables {
		if !inspectTable(database, table, *columns) {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func inspectTable(database *gorm.DB, table string, listColumns bool) bool {
	if !database.Migrator().HasTable(table) {
		log.Error().Str("table", table).Msg("table missing")
		return false
	}

	var count int64
	if err := database.Table(table).Count(&count).Error; err != nil {
		log.Error().Err(err).Str("table", table).Msg("count failed")
		return false
	}
	log.Info().Str("table", table).Int64("rows", count).Msg("table ok")

	if listColumns {
		columnTypes, err := database.Migrator().ColumnTypes(table)
		if err != nil {
			log.Error().Err(err).Str("table", table).Msg("column inspection failed")
			return false
		}
		for _, col := range columnTypes {
			log.Info().
				Str("table", table).
				Str("column", col.Name()).
				Str("type", col.DatabaseTypeName()).
				Msg("column")
		}
	}
	return true
}
