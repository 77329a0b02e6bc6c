package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kingpin/v2"
	_ "github.com/microsoft/go-mssqldb"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"vatkhata/internal/bikram"
	"vatkhata/internal/config"
	"vatkhata/internal/domain"
	"vatkhata/internal/portal"
	"vatkhata/internal/repository/mssql"
	"vatkhata/internal/repository/storage"
	"vatkhata/internal/service"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cmdReport := kingpin.Command("report", "Generate VAT reports for a filing month")
	reportYear := cmdReport.Flag("year", "Filing year (BS); defaults to the previous BS month").Int()
	reportMonth := cmdReport.Flag("month", "Filing month (BS, 1-12); defaults to the previous BS month").Int()
	reportBook := cmdReport.Flag("book", "Book to generate: purchase, sales or all").Default("all").Enum("purchase", "sales", "all")

	cmdRestore := kingpin.Command("restore", "Fetch the latest database backup and restore it")
	restorePattern := cmdRestore.Flag("pattern", "Backup file name pattern").Default(config.BackupPattern).String()
	restoreForce := cmdRestore.Flag("force", "Restore even when the latest backup was already restored").Bool()

	cmd := kingpin.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	switch cmd {
	case cmdReport.FullCommand():
		if err := runReport(ctx, cfg, *reportYear, *reportMonth, *reportBook); err != nil {
			log.Fatal().Err(err).Msg("Report generation failed")
		}
	case cmdRestore.FullCommand():
		if err := runRestore(ctx, cfg, *restorePattern, *restoreForce); err != nil {
			log.Fatal().Err(err).Msg("Restore failed")
		}
	}
}

func runReport(ctx context.Context, cfg *config.Config, year, month int, bookName string) error {
	filingMonth, err := resolveFilingMonth(year, month)
	if err != nil {
		return err
	}

	db, err := sql.Open("sqlserver", cfg.DB.URL())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	log.Info().Msg("Connected to database")

	cbms := portal.NewClient(cfg.CBMS.BaseURL, map[string]string{
		"Origin":  "https://cbms.ird.gov.np:8060",
		"Referer": "https://cbms.ird.gov.np:8060/",
	})
	taxpayerPortal := portal.NewClient(cfg.PortalBaseURL, nil)
	auth := portal.NewTokenAuth(cbms, cfg.CBMS.PAN, cfg.CBMS.LoginID, cfg.CBMS.Password)

	templateDir := ""
	if cfg.SaveTemplates {
		templateDir = cfg.TemplateDir
	}
	templates := portal.NewTemplateService(cbms, taxpayerPortal, auth, config.TemplateMD5, templateDir)

	reports := service.NewReportService(mssql.NewTransactionRepository(db))
	generator := service.NewGenerator(reports, templates, cfg.TaxpayerPAN, cfg.OfficeName, cfg.SheetsDir, os.Stdout)

	var book *domain.Book
	if bookName != "all" {
		b, err := domain.BookByName(bookName)
		if err != nil {
			return err
		}
		book = &b
	}

	return generator.Generate(ctx, filingMonth, book)
}

// resolveFilingMonth applies the default: the BS month before today's.
// Year and month come as a pair; one without the other is an input error, not
// a half-applied default.
func resolveFilingMonth(year, month int) (domain.FilingMonth, error) {
	if year != 0 && month != 0 {
		return domain.NewFilingMonth(year, month)
	}
	if year != 0 || month != 0 {
		return domain.FilingMonth{}, fmt.Errorf("%w: --year and --month must be given together", domain.ErrInvalidFilingMonth)
	}

	today, err := bikram.FromGregorian(time.Now())
	if err != nil {
		return domain.FilingMonth{}, err
	}
	year, month = today.Year, today.Month-1
	if month == 0 {
		year, month = year-1, 12
	}
	return domain.NewFilingMonth(year, month)
}

func runRestore(ctx context.Context, cfg *config.Config, pattern string, force bool) error {
	backups, err := storage.NewBackupRepository(ctx, cfg.S3, cfg.BackupDir)
	if err != nil {
		return err
	}

	latest, err := backups.LatestByPattern(ctx, pattern)
	if err != nil {
		return err
	}

	cache := storage.NewRestoreCache(filepath.Join(cfg.BackupDir, "restore_cache.json"))
	last, err := cache.LastRestored()
	if err != nil {
		return err
	}
	if last != nil && last.Name == latest.Name && !force {
		log.Info().Str("backup", latest.Name).Msg("Database already restored from the latest backup")
		return nil
	}

	path, err := backups.Download(ctx, latest)
	if err != nil {
		return err
	}

	// Restores run against master, not the database being replaced.
	masterCfg := cfg.DB
	masterCfg.Database = "master"
	db, err := sql.Open("sqlserver", masterCfg.URL())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	restorer := mssql.NewRestoreRepository(db, cfg.DB.Database, mssql.DefaultDataDir)
	if err := restorer.Restore(ctx, path); err != nil {
		return err
	}

	return cache.Record(latest.Name)
}
