package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	app "tread-bot/internal/application"
)

// NewClassifyCmd создаёт команду проверки «это фото шины?»
func NewClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <file>...",
		Short: "Check whether photos look like tyres",
		Long: `Classify runs six independent checks on every photo and prints
how many passed. Four or more checks mean the photo is accepted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runClassifyCmd,
	}
}

func runClassifyCmd(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	env.warnNoVision()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tSCORE\tVERDICT\tMEAN\tCIRCLES\tEDGES\tRECTS\tWHITE")

	err = forEachFile(cmd, env, args, func(path string, data []byte) error {
		out, err := env.app.InspectionService.InspectPhoto(cmd.Context(), data, app.InspectOptions{SkipWear: true})
		if err != nil {
			return err
		}

		v := out.Inspection.Verdict
		m := v.Measurements
		verdict := "rejected"
		if v.Passed {
			verdict = "tyre"
		}
		fmt.Fprintf(tw, "%s\t%d/6\t%s\t%.1f\t%d\t%.3f\t%d\t%.3f\n",
			path, v.ScoreCount, verdict, m.MeanIntensity, m.CircleCount, m.EdgeRatio, m.RectangleCount, m.WhiteRatio)
		return nil
	})

	if flushErr := tw.Flush(); flushErr != nil && err == nil {
		err = flushErr
	}
	return err
}
