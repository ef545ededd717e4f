package main

import (
	"fmt"
	"io"

	"github.com/1F47E/geobox/pkg/geobox"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF79C6")).
			Background(lipgloss.Color("#282A36")).
			Padding(0, 1).
			MarginTop(1)

	subtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BE9FD"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1FA8C"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))
)

// demoSamples mirror each other across both hemispheres
var demoSamples = []struct{ lat, lon string }{
	{"43.16956", "-77.61139"},
	{"-43.16956", "77.61139"},
}

func (a *app) demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Print edge-detection diagnostics for two sample coordinates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDemo(cmd.OutOrStdout())
		},
	}
}

func (a *app) runDemo(out io.Writer) error {
	fmt.Fprintln(out, titleStyle.Render("geobox diagnostics"))

	for _, sample := range demoSamples {
		pt, err := geobox.Parse(sample.lat, sample.lon, &a.cfg)
		if err != nil {
			return err
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, subtitleStyle.Render("coordinates "+sample.lat+" & "+sample.lon))
		for _, scope := range a.cfg.Scopes {
			printScopeDiagnostics(out, pt, scope)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, successStyle.Render("diagnostics finished"))
	return nil
}

func printScopeDiagnostics(out io.Writer, pt *geobox.Geobox, scope decimal.Decimal) {
	loc := pt.Location()
	margin := pt.MarginWidth(scope)
	bottom := geobox.RoundDown(loc.Lat, scope)
	left := geobox.RoundDown(loc.Lon, scope)

	fmt.Fprintf(out, "\n%s %s\n", infoStyle.Render("scope"), scope)
	fmt.Fprintf(out, "margin size: %s\n", margin)

	fmt.Fprintln(out, dimStyle.Render("latitude"))
	fmt.Fprintf(out, "rounded: %s <= lat: %s\n", bottom, loc.Lat)
	fmt.Fprintf(out, "%s < %s extend_up: %s\n", bottom.Add(scope).Sub(loc.Lat).Abs(), margin, yesNo(pt.ExtendUp(scope)))
	fmt.Fprintf(out, "%s < %s extend_down: %s\n", loc.Lat.Sub(bottom).Abs(), margin, yesNo(pt.ExtendDown(scope)))

	fmt.Fprintln(out, dimStyle.Render("longitude"))
	fmt.Fprintf(out, "rounded: %s <= lon: %s\n", left, loc.Lon)
	fmt.Fprintf(out, "%s < %s extend_left: %s\n", loc.Lon.Sub(left).Abs(), margin, yesNo(pt.ExtendLeft(scope)))
	fmt.Fprintf(out, "%s < %s extend_right: %s\n", left.Add(scope).Sub(loc.Lon).Abs(), margin, yesNo(pt.ExtendRight(scope)))
}

func yesNo(v bool) string {
	if v {
		return successStyle.Render("true")
	}
	return dimStyle.Render("false")
}
