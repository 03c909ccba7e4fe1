package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Skufu/vitalrisk/internal/batch"
	"github.com/Skufu/vitalrisk/internal/triage"
)

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Analyze a comma separated patient table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exportPath, _ := cmd.Flags().GetString("export")
			withRows, _ := cmd.Flags().GetBool("rows")

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := batch.Ingest(f)
			if err != nil {
				return err
			}
			analysis := batch.Analyze(rows)

			if exportPath != "" {
				if err := writeExport(exportPath, rows); err != nil {
					return err
				}
			}

			out := map[string]any{
				"summary":    analysis.Summary,
				"riskCounts": analysis.RiskCounts,
			}
			if withRows {
				out["rows"] = analysis.Rows
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().String("export", "", "Also write the results table to this path (e.g. "+batch.ExportFilename+")")
	cmd.Flags().Bool("rows", false, "Include every parsed row in the output")
	return cmd
}

func writeExport(path string, rows []batch.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := batch.WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// predictFlags maps flag names to the JSON field names SubjectFromFields reads.
var predictFlags = map[string]string{
	"heart-rate":  "heartRate",
	"spo2":        "spo2",
	"systolic":    "systolicBP",
	"diastolic":   "diastolicBP",
	"temperature": "temperature",
	"age":         "age",
	"gender":      "gender",
	"weight":      "weight",
	"height":      "height",
	"fall":        "fallDetected",
}

func predictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score a single subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := map[string]string{}
			for flag, field := range predictFlags {
				if cmd.Flags().Changed(flag) {
					v, _ := cmd.Flags().GetString(flag)
					fields[field] = v
				}
			}
			in := triage.SubjectFromFields(fields)

			symptoms, _ := cmd.Flags().GetStringSlice("symptom")
			conditions, _ := cmd.Flags().GetStringSlice("history")
			meds, _ := cmd.Flags().GetStringSlice("medication")
			for _, s := range symptoms {
				in.Symptoms = append(in.Symptoms, triage.Symptom(s))
			}
			for _, c := range conditions {
				in.MedicalHistory = append(in.MedicalHistory, triage.Condition(c))
			}
			for _, m := range meds {
				in.CurrentMedications = append(in.CurrentMedications, triage.Medication(m))
			}
			if err := in.Normalize(); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), triage.Assess(in))
		},
	}
	defaults := triage.DefaultSubject()
	cmd.Flags().String("heart-rate", fmt.Sprint(defaults.HeartRate), "Heart rate (bpm)")
	cmd.Flags().String("spo2", fmt.Sprint(defaults.SpO2), "Oxygen saturation (%)")
	cmd.Flags().String("systolic", fmt.Sprint(defaults.SystolicBP), "Systolic blood pressure (mmHg)")
	cmd.Flags().String("diastolic", fmt.Sprint(defaults.DiastolicBP), "Diastolic blood pressure (mmHg)")
	cmd.Flags().String("temperature", fmt.Sprint(defaults.Temperature), "Body temperature (°C)")
	cmd.Flags().String("age", fmt.Sprint(defaults.Age), "Age in years")
	cmd.Flags().String("gender", string(defaults.Gender), "male, female or other")
	cmd.Flags().String("weight", fmt.Sprint(defaults.Weight), "Weight (kg)")
	cmd.Flags().String("height", fmt.Sprint(defaults.Height), "Height (cm)")
	cmd.Flags().String("fall", "no", "Fall detected (yes/no)")
	cmd.Flags().StringSlice("symptom", nil, "Symptom from the catalog, repeatable")
	cmd.Flags().StringSlice("history", nil, "Medical history condition, repeatable")
	cmd.Flags().StringSlice("medication", nil, "Current medication, repeatable")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
