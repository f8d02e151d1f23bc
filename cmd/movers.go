package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/guttosm/stockpulse/config"
	"github.com/guttosm/stockpulse/internal/app"
	"github.com/guttosm/stockpulse/internal/domain/dto"
	"github.com/guttosm/stockpulse/internal/service"
)

// moversReport is the movers output, shaped like the API responses.
type moversReport struct {
	Gainers []dto.MoverResponse  `json:"top_gainers"`
	Losers  []dto.MoverResponse  `json:"top_losers"`
	Sectors []dto.SectorResponse `json:"sectors"`
}

func newMoversCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "movers",
		Short: "Print top gainers, top losers and sector averages from stored data",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, repo, err := app.OpenStore(config.AppConfig)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			svc := service.NewStockService(repo, app.NewProvider(config.AppConfig.Provider))
			report, err := loadMovers(cmd.Context(), svc)
			if err != nil {
				return err
			}
			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return renderMovers(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json")
	return cmd
}

func loadMovers(ctx context.Context, svc service.StockService) (moversReport, error) {
	gainers, err := svc.TopGainers(ctx)
	if err != nil {
		return moversReport{}, fmt.Errorf("top gainers: %w", err)
	}
	losers, err := svc.TopLosers(ctx)
	if err != nil {
		return moversReport{}, fmt.Errorf("top losers: %w", err)
	}
	sectors, err := svc.Sectors(ctx)
	if err != nil {
		return moversReport{}, fmt.Errorf("sectors: %w", err)
	}
	return moversReport{
		Gainers: dto.NewMoverResponses(gainers),
		Losers:  dto.NewMoverResponses(losers),
		Sectors: dto.NewSectorResponses(sectors),
	}, nil
}

func renderMovers(w io.Writer, r moversReport) error {
	for _, section := range []struct {
		title string
		rows  []dto.MoverResponse
	}{
		{"Top gainers", r.Gainers},
		{"Top losers", r.Losers},
	} {
		fmt.Fprintf(w, "%s:\n", section.title)
		if len(section.rows) == 0 {
			fmt.Fprintln(w, "  no data")
			continue
		}
		table := tablewriter.NewTable(w,
			tablewriter.WithHeader([]string{"Symbol", "Name", "Price", "Change", "Volume"}),
		)
		for _, m := range section.rows {
			if err := table.Append([]string{
				m.Symbol,
				m.Name,
				fmt.Sprintf("%.2f", m.CurrentPrice),
				fmt.Sprintf("%+.2f%%", m.ChangePercent),
				fmt.Sprintf("%d", m.Volume),
			}); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Sectors:")
	if len(r.Sectors) == 0 {
		fmt.Fprintln(w, "  no data")
		return nil
	}
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Sector", "Avg change", "Companies"}),
	)
	for _, s := range r.Sectors {
		name := "(none)"
		if s.Sector != nil {
			name = *s.Sector
		}
		if err := table.Append([]string{name, fmt.Sprintf("%+.2f%%", s.AvgChange), fmt.Sprintf("%d", len(s.Companies))}); err != nil {
			return err
		}
	}
	return table.Render()
}
