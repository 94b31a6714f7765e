package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/quantarc/tradebot/market/data"
	"github.com/spf13/cobra"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Inspect and convert candle data files",
	Long: `Work with candle data files (.csv, .json, .zip, .xz).

Subcommands:
  inspect - Print a summary of a candle file
  export  - Re-export any supported file as a plain CSV`,
}

var dataInspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print a summary of a candle file",
	RunE:  runDataInspect,
}

var dataExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Re-export a candle file as plain CSV",
	RunE:  runDataExport,
}

var (
	dataFile   string
	dataOutput string
)

func init() {
	rootCmd.AddCommand(dataCmd)
	dataCmd.AddCommand(dataInspectCmd)
	dataCmd.AddCommand(dataExportCmd)

	dataInspectCmd.Flags().StringVarP(&dataFile, "file", "f", "", "path to candle file (required)")
	dataInspectCmd.MarkFlagRequired("file")

	dataExportCmd.Flags().StringVarP(&dataFile, "file", "f", "", "path to candle file (required)")
	dataExportCmd.Flags().StringVarP(&dataOutput, "output", "o", "out.csv", "output CSV path")
	dataExportCmd.MarkFlagRequired("file")
}

func runDataInspect(cmd *cobra.Command, args []string) error {
	bars, err := data.LoadFile(dataFile)
	if err != nil {
		return fmt.Errorf("load %s: %w", dataFile, err)
	}
	if len(bars) == 0 {
		fmt.Println("No candles found.")
		return nil
	}

	first, last := bars[0], bars[len(bars)-1]
	lo, hi := first.Low, first.High
	for _, b := range bars {
		if b.Low < lo {
			lo = b.Low
		}
		if b.High > hi {
			hi = b.High
		}
	}

	fmt.Printf("File:    %s\n", dataFile)
	fmt.Printf("Candles: %d\n", len(bars))
	fmt.Printf("Range:   %s -> %s\n", first.Time.Format(time.RFC3339), last.Time.Format(time.RFC3339))
	fmt.Printf("Price:   low %.4f, high %.4f, last close %.4f\n", lo, hi, last.Close)
	return nil
}

func runDataExport(cmd *cobra.Command, args []string) error {
	bars, err := data.LoadFile(dataFile)
	if err != nil {
		return fmt.Errorf("load %s: %w", dataFile, err)
	}

	f, err := os.Create(dataOutput)
	if err != nil {
		return fmt.Errorf("create %s: %w", dataOutput, err)
	}
	defer f.Close()

	if err := data.WriteCSV(f, bars); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	fmt.Printf("Wrote %d candles to %s\n", len(bars), dataOutput)
	return nil
}
