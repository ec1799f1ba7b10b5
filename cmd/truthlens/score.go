package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/truthlens/truthlens/decode"
	"github.com/truthlens/truthlens/model"
	"github.com/truthlens/truthlens/report"
	"github.com/truthlens/truthlens/scoring"
)

var (
	flagRecordOut    string
	flagJSONOutput   bool
	flagTopFeatures  int
	flagFFmpegPath   string
	flagAlertAnomaly float64
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Faint(true)
	tierStyles  = map[scoring.RiskTier]lipgloss.Style{
		scoring.TierLikelyHuman:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		scoring.TierElevatedRisk:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		scoring.TierHighSynthetic: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
	alertStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

var scoreCmd = &cobra.Command{
	Use:   "score <audio-file>",
	Short: "Score an audio clip for synthetic-voice likelihood",
	Args:  cobra.ExactArgs(1),
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&flagRecordOut, "record", "r", "", "write the forensic record JSON to this file")
	scoreCmd.Flags().BoolVar(&flagJSONOutput, "json", false, "print the forensic record as JSON instead of formatted output")
	scoreCmd.Flags().IntVar(&flagTopFeatures, "top-features", 5, "number of strongest feature attributions to display")
	scoreCmd.Flags().StringVar(&flagFFmpegPath, "ffmpeg", "", "path to the ffmpeg binary")
	scoreCmd.Flags().Float64Var(&flagAlertAnomaly, "anomaly-threshold", 0, "flag results with anomaly distance at or above this value (0 disables)")
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	if flagAlertAnomaly > 0 {
		cfg.Engine.AnomalyAlertThreshold = flagAlertAnomaly
	}

	bundle, err := model.LoadBundle(cfg.ModelDir)
	if err != nil {
		return err
	}

	engine, err := scoring.NewEngine(cfg.Engine, bundle.Models())
	if err != nil {
		return err
	}

	decodeCfg := decode.DefaultConfig()
	decodeCfg.TargetSampleRate = cfg.Engine.SampleRate
	if flagFFmpegPath != "" {
		decodeCfg.FFmpegPath = flagFFmpegPath
	}
	decoder := decode.NewDecoder(decodeCfg)

	audio, err := decoder.DecodeFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	result, err := engine.Score(audio.PCM, audio.SampleRate)
	if err != nil {
		return err
	}

	record := report.NewRecord(result, time.Now())

	if flagRecordOut != "" {
		data, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding forensic record: %w", err)
		}
		if err := os.WriteFile(flagRecordOut, data, 0o644); err != nil {
			return fmt.Errorf("writing forensic record: %w", err)
		}
	}

	if flagJSONOutput {
		data, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding forensic record: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	printResult(args[0], audio, result, record)
	return nil
}

func loadAppConfig() (model.Config, error) {
	cfg := model.DefaultConfig()
	if flagConfig != "" {
		loaded, err := model.LoadConfig(flagConfig)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if flagModelDir != "" {
		cfg.ModelDir = flagModelDir
	}
	return cfg, nil
}

func printResult(path string, audio *decode.AudioData, result *scoring.ScoringResult, record *report.ForensicRecord) {
	fmt.Println(headerStyle.Render("Voice Authenticity Report"))
	fmt.Printf("%s %s (%.1fs)\n", labelStyle.Render("clip:"), path, audio.Duration.Seconds())
	fmt.Println()

	tierStyle, ok := tierStyles[result.RiskTier]
	if !ok {
		tierStyle = headerStyle
	}
	fmt.Println(tierStyle.Render(result.RiskTierLabel))
	fmt.Printf("%s %.2f%%\n", labelStyle.Render("synthetic:"), result.SyntheticPercent)
	fmt.Printf("%s %.2f%%\n", labelStyle.Render("human:   "), result.HumanPercent)
	fmt.Printf("%s %.4f\n", labelStyle.Render("anomaly: "), result.AnomalyDistance)
	if result.OutOfDistribution {
		fmt.Println(alertStyle.Render("warning: clip is unlike the reference population, treat the score with caution"))
	}

	if flagTopFeatures > 0 && len(result.Attributions) > 0 {
		fmt.Println()
		fmt.Println(headerStyle.Render("Strongest feature contributions"))
		for _, a := range topAttributions(result.Attributions, flagTopFeatures) {
			direction := "toward synthetic"
			if a.Contribution < 0 {
				direction = "toward human"
			}
			fmt.Printf("  %-12s %+.4f  (%s)\n", a.FeatureName, a.Contribution, direction)
		}
	}

	fmt.Println()
	fmt.Printf("%s %s\n", labelStyle.Render("record id:"), record.ID)
	fmt.Printf("%s %s\n", labelStyle.Render("timestamp:"), record.Timestamp)
	fmt.Printf("%s %s\n", labelStyle.Render("integrity:"), record.IntegrityHash)
}

// topAttributions returns the n attributions with the largest absolute
// contribution, strongest first
func topAttributions(attributions []scoring.FeatureAttribution, n int) []scoring.FeatureAttribution {
	sorted := make([]scoring.FeatureAttribution, len(attributions))
	copy(sorted, attributions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(sorted[i].Contribution) > math.Abs(sorted[j].Contribution)
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
