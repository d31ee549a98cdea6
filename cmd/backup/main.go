package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/config"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/content"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/database"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/repository"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/service"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	vocabCmd := flag.NewFlagSet("import-vocab", flag.ExitOnError)

	exportOutput := exportCmd.String("output", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	importInput := importCmd.String("input", "", "Input file path (required)")
	vocabInput := vocabCmd.String("input", "", "Vocabulary workbook .xlsx path (required)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		handleExport(service.NewBackupService(db), *exportOutput)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(service.NewBackupService(db), *importInput)

	case "import-vocab":
		vocabCmd.Parse(os.Args[2:])
		if *vocabInput == "" {
			fmt.Println("Error: -input flag is required")
			vocabCmd.PrintDefaults()
			os.Exit(1)
		}
		handleVocabImport(db, *vocabInput)

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleExport(backup *service.BackupService, outputPath string) {
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("backup_%s.json", timestamp)
	}

	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer f.Close()

	if err := backup.Export(f); err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	fmt.Printf("Backup written to %s\n", outputPath)
}

func handleImport(backup *service.BackupService, inputPath string) {
	f, err := os.Open(inputPath)
	if err != nil {
		log.Fatalf("Failed to open input file: %v", err)
	}
	defer f.Close()

	if err := backup.Import(f); err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	fmt.Println("Import complete")
}

func handleVocabImport(db *database.DB, inputPath string) {
	importer := content.NewImporter(repository.NewVocabRepository(db))

	result, err := importer.ImportFile(inputPath)
	if err != nil {
		log.Fatalf("Vocabulary import failed: %v", err)
	}

	fmt.Printf("Imported %d entries (%d rows skipped)\n", result.Imported, result.Skipped)
}

func printUsage() {
	fmt.Println("Usage: backup <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  export        Export the store to a JSON backup file")
	fmt.Println("  import        Import a JSON backup file into the store")
	fmt.Println("  import-vocab  Load a vocabulary deck from an .xlsx workbook")
	fmt.Println()
	fmt.Println("Run 'backup <command> -h' for command flags.")
}
