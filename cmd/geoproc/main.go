package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/geoproc/internal/classify"
	"github.com/geoproc/internal/dataset"
	"github.com/geoproc/internal/export"
	"github.com/geoproc/internal/normalize"
	"github.com/geoproc/internal/web"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "geoproc",
		Short: "Delivery dataset reconciliation and export",
		Long:  `Loads geocoded delivery spreadsheets, classifies records and produces routing exports`,
	}

	rootCmd.AddCommand(createServeCmd())
	rootCmd.AddCommand(createExportCmd())
	rootCmd.AddCommand(createStatsCmd())
	rootCmd.AddCommand(createNormalizeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// createServeCmd starts the web interface
func createServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web interface",
		Run: func(cmd *cobra.Command, args []string) {
			config := web.LoadConfig()
			server, err := web.NewServer(config)
			if err != nil {
				log.Fatalf("Failed to create server: %v", err)
			}
			if err := server.Start(); err != nil {
				log.Fatalf("Server failed to start: %v", err)
			}
		},
	}
}

// createExportCmd creates the export subcommand group
func createExportCmd() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Generate exports from a processed dataset file",
		Long:  `Reads a processed dataset JSON file and writes the routing CSV or the reviewed workbook`,
	}

	exportCmd.AddCommand(createExportCircuitCmd())
	exportCmd.AddCommand(createExportWorkbookCmd())
	return exportCmd
}

func createExportCircuitCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "circuit <dataset.json>",
		Short: "Write the routing CSV for all located records",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			store := loadDatasetFile(args[0])

			rows := export.GroupCircuit(store.Records())
			if output == "" {
				output = export.CircuitFilename(store.SourceName())
			}

			f, err := os.Create(output)
			if err != nil {
				log.Fatalf("Failed to create %s: %v", output, err)
			}
			defer f.Close()

			if err := export.WriteCircuitCSV(f, rows); err != nil {
				log.Fatalf("Export failed: %v", err)
			}
			fmt.Printf("Wrote %d stops to %s\n", len(rows), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path")
	return cmd
}

func createExportWorkbookCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "workbook <dataset.json>",
		Short: "Write the reviewed workbook grouped by status",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			store := loadDatasetFile(args[0])

			f, err := export.BuildWorkbook(store.Records(), store.Columns())
			if err != nil {
				log.Fatalf("Export failed: %v", err)
			}
			defer f.Close()

			if output == "" {
				output = export.WorkbookFilename(store.SourceName())
			}
			if err := f.SaveAs(output); err != nil {
				log.Fatalf("Failed to write %s: %v", output, err)
			}
			fmt.Printf("Wrote workbook to %s\n", output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path")
	return cmd
}

// createStatsCmd prints classification counts for a dataset file
func createStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <dataset.json>",
		Short: "Show classification counts for a dataset file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			store := loadDatasetFile(args[0])

			counts := map[string]int{}
			needsFix := 0
			for _, rec := range store.Records() {
				c := classify.Classify(rec)
				counts[c.String()]++
				if classify.NeedsFix(c) {
					needsFix++
				}
			}

			fmt.Printf("Records: %d\n", store.Len())
			for _, status := range []string{"found", "partial", "condominium", "manual_fix", "not_found"} {
				if counts[status] > 0 {
					fmt.Printf("  %-12s %d\n", status, counts[status])
				}
			}
			fmt.Printf("Needs fix: %d\n", needsFix)
		},
	}
}

// createNormalizeCmd normalizes a single raw address
func createNormalizeCmd() *cobra.Command {
	var district string

	cmd := &cobra.Command{
		Use:   "normalize <address>",
		Short: "Show the canonical form of a raw address",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			canonical := normalize.CanonicalAddress(args[0], district)
			fmt.Printf("Canonical: %s\n", canonical)

			block, lot := normalize.ExtractBlockLot(canonical)
			if block != "" {
				fmt.Printf("Block: %s  Lot: %s\n", block, lot)
			}
		},
	}

	cmd.Flags().StringVarP(&district, "district", "d", "", "District used for condominium exceptions")
	return cmd
}

// datasetEnvelope matches the processing relay's response file format
type datasetEnvelope struct {
	Filename string           `json:"filename"`
	Data     []dataset.Record `json:"data"`
}

// loadDatasetFile reads either a relay response envelope or a bare JSON
// array of records into a fresh store
func loadDatasetFile(path string) *dataset.Store {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", path, err)
	}

	var envelope datasetEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Data == nil {
		var rows []dataset.Record
		if err := json.Unmarshal(raw, &rows); err != nil {
			log.Fatalf("Failed to parse %s: %v", path, err)
		}
		envelope.Data = rows
	}

	store := dataset.NewStore()
	store.Load(envelope.Data)

	name := envelope.Filename
	if name == "" {
		name = filepath.Base(path)
	}
	store.SetSourceName(name)
	return store
}
