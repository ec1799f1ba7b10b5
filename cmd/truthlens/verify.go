package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/truthlens/truthlens/report"
)

var (
	verifyOKStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	verifyFailStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

var verifyCmd = &cobra.Command{
	Use:   "verify <record.json>",
	Short: "Verify the integrity hash of a forensic record",
	Long: `verify recomputes the integrity hash of a previously written forensic
record from its own fields and compares it to the stored hash. A mismatch
means the score, tier label or timestamp was altered after the record was
sealed.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading record: %w", err)
	}

	var record report.ForensicRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("parsing record: %w", err)
	}

	fmt.Printf("record id: %s\n", record.ID)
	fmt.Printf("timestamp: %s\n", record.Timestamp)
	fmt.Printf("tier:      %s\n", record.RiskTierLabel)
	fmt.Printf("synthetic: %.2f%%\n", record.SyntheticPercent)

	if !record.Verify() {
		fmt.Println(verifyFailStyle.Render("INTEGRITY CHECK FAILED: record has been altered"))
		os.Exit(1)
	}

	fmt.Println(verifyOKStyle.Render("integrity verified"))
	return nil
}
