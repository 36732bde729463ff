package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"plancharts/internal/charts"
	"plancharts/internal/config"
	"plancharts/internal/data"
	"plancharts/internal/defaults"
	"plancharts/internal/format"
	"plancharts/internal/host"
	"plancharts/internal/logging"
	"plancharts/internal/protocol"
	"plancharts/internal/tabular"
)

type app struct {
	cfgPath string
	catalog *charts.Catalog
	host    *host.Host
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "cli",
		Short:         "Compute business-plan chart payloads",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "Path to YAML config (optional)")

	root.AddCommand(a.transformCmd(), a.defaultsCmd(), a.domainsCmd())
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if a.cfgPath == "" {
		// quiet unless configured otherwise
		cfg.Log.Level = "warn"
		cfg.Log.Format = "console"
	}
	if a.logger, err = logging.New(cfg.Log); err != nil {
		return err
	}

	ds, err := defaults.Load()
	if err != nil {
		return err
	}
	if cfg.DatasetsFile != "" {
		if ds, err = defaults.LoadFile(cfg.DatasetsFile); err != nil {
			return err
		}
	}
	a.catalog = charts.NewCatalog(defaults.NewStore(ds), format.New(cfg.Palette), charts.WithMilestone(cfg.Milestone))
	a.host = host.New(a.catalog, host.WithLogger(a.logger))
	return nil
}

type outputFlags struct {
	out string
	csv string
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.out, "out", "", "Write the response JSON here instead of stdout")
	cmd.Flags().StringVar(&o.csv, "csv", "", "Also write the chart table as CSV")
}

func (a *app) transformCmd() *cobra.Command {
	var (
		input string
		o     outputFlags
	)
	cmd := &cobra.Command{
		Use:   "transform <domain>",
		Short: "Run one request envelope against a chart domain",
		Example: "  cli transform risk --input request.json --csv results/risk.csv\n" +
			"  echo '{\"action\":\"prepareData\"}' | cli transform revenue --input -",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := data.LoadRequest(input)
			if err != nil {
				return err
			}
			return a.render(cmd, args[0], raw, o)
		},
	}
	cmd.Flags().StringVar(&input, "input", "-", `Request envelope JSON file ("-" for stdin)`)
	o.register(cmd)
	return cmd
}

func (a *app) defaultsCmd() *cobra.Command {
	var o outputFlags
	cmd := &cobra.Command{
		Use:   "defaults <domain>",
		Short: "Render a chart domain from its default dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, ok := a.catalog.Domain(args[0])
			if !ok {
				return fmt.Errorf("%w %q", host.ErrUnknownDomain, args[0])
			}
			raw, err := protocol.NewRequest(d.Actions()[0], nil)
			if err != nil {
				return err
			}
			return a.render(cmd, args[0], raw, o)
		},
	}
	o.register(cmd)
	return cmd
}

func (a *app) domainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List chart domains and their actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, name := range a.catalog.Names() {
				d, _ := a.catalog.Domain(name)
				fmt.Fprintf(w, "%-20s %v\n", name, d.Actions())
			}
			return nil
		},
	}
}

func (a *app) render(cmd *cobra.Command, domain string, raw []byte, o outputFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	out, err := a.host.Render(ctx, domain, raw)
	if err != nil {
		return err
	}
	resp := out.Response

	if o.out != "" {
		if err := data.SaveResponse(resp, o.out); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "Wrote response to %s\n", o.out)
	} else {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(resp); err != nil {
			return err
		}
	}

	if resp.IsError() {
		return fmt.Errorf("%s: %w", domain, resp.Err())
	}
	if o.csv != "" && resp.ChartData != nil {
		if err := tabular.WriteTableCSV(o.csv, resp.ChartData.TableData); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "Wrote %d rows to %s\n", len(resp.ChartData.TableData.Rows), o.csv)
	}
	return nil
}
