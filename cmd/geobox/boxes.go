package main

import (
	"fmt"

	"github.com/1F47E/geobox/pkg/geobox"
	"github.com/1F47E/geobox/pkg/models"
	"github.com/spf13/cobra"
)

func (a *app) storageCmd() *cobra.Command {
	var (
		lat, lon  string
		asGeoJSON bool
	)

	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Print the geoboxes a point should be stored under",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pt, err := geobox.Parse(lat, lon, &a.cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asGeoJSON {
				return writeJSON(out, a.cfg.FeatureCollection(pt.StorageBoxes()))
			}
			for _, id := range pt.StorageGeoboxes() {
				fmt.Fprintln(out, id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&lat, "lat", "", "Latitude in decimal degrees")
	cmd.Flags().StringVar(&lon, "lon", "", "Longitude in decimal degrees")
	cmd.Flags().BoolVar(&asGeoJSON, "geojson", false, "Output a GeoJSON FeatureCollection")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

func (a *app) searchCmd() *cobra.Command {
	var lat, lon, scope string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Print the geobox to query for points near a coordinate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pt, err := geobox.Parse(lat, lon, &a.cfg)
			if err != nil {
				return err
			}

			id, err := pt.SearchGeoboxString(scope)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	cmd.Flags().StringVar(&lat, "lat", "", "Latitude in decimal degrees")
	cmd.Flags().StringVar(&lon, "lon", "", "Longitude in decimal degrees")
	cmd.Flags().StringVarP(&scope, "scope", "s", "", "Search scope in degrees, snapped to the nearest configured scope")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	_ = cmd.MarkFlagRequired("scope")
	return cmd
}

func (a *app) decodeCmd() *cobra.Command {
	var asGeoJSON bool

	cmd := &cobra.Command{
		Use:   "decode <geobox>...",
		Short: "Decode geobox identifiers into their edges",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			boxes := make([]models.BoundingBox, 0, len(args))
			for _, id := range args {
				box, err := a.cfg.ParseIdentifier(id)
				if err != nil {
					return err
				}
				boxes = append(boxes, box)
			}

			out := cmd.OutOrStdout()
			if asGeoJSON {
				return writeJSON(out, a.cfg.FeatureCollection(boxes))
			}
			for i, box := range boxes {
				fmt.Fprintf(out, "%s: top=%s left=%s bottom=%s right=%s scope=%s\n",
					args[i], box.Top, box.Left, box.Bottom, box.Right, box.Size())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asGeoJSON, "geojson", false, "Output a GeoJSON FeatureCollection")
	return cmd
}
