// Command seed-catalog loads a YAML or TOML seed file into the sqlite catalog.
package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/debemdeboas/second-chance/internal/config"
	"github.com/debemdeboas/second-chance/internal/db"
	"github.com/debemdeboas/second-chance/internal/logger"
	"github.com/debemdeboas/second-chance/internal/repository"
)

func main() {
	godotenv.Load()

	seedPath := flag.String("seed", "", "Path to the .yaml, .yml or .toml seed file")
	dbPath := flag.String("db", "", "Path to the sqlite database (defaults to catalog.database_path)")
	configPath := flag.String("config", config.DefaultConfigPath, "Path to the config file")
	flag.Parse()

	log := logger.New(os.Getenv(config.EnvLogLevel))
	config.SetLogger(log)
	db.SetLogger(log)
	repository.SetLogger(log)

	if *seedPath == "" {
		log.Fatal().Msg("The --seed flag is required")
	}

	if err := config.LoadConfig(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if *dbPath == "" {
		*dbPath = config.AppConfig.Catalog.DatabasePath
	}

	listings, err := repository.LoadSeed(*seedPath)
	if err != nil {
		log.Fatal().Err(err).Msgf(config.ErrReadSeedFileFmt, *seedPath)
	}

	sqlite := db.NewSQLite(*dbPath)
	if err := sqlite.InitDb(); err != nil {
		log.Fatal().Err(err).Msgf(config.ErrInitializeDBFmt, *dbPath)
	}
	defer sqlite.Close()

	if err := repository.NewDBListingRepository(sqlite).ReplaceAll(listings); err != nil {
		log.Fatal().Err(err).Msg("Failed to store listings")
	}

	log.Info().Str("db", *dbPath).Int("listings", len(listings)).Msg("Catalog seeded")
}
