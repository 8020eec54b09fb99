package main

import (
	"github.com/spf13/cobra"

	"nomina/internal/store"
)

// SetupCommands 命令树
func SetupCommands(a *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "nomina",
		Short:         "Weekly payroll tracking sheet generator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.loadConfig()
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config.toml path (default: next to the executable)")

	// 本地网页界面
	var serveOpts ServeOptions
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local web form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Serve(serveOpts)
		},
	}
	serveCmd.Flags().IntVar(&serveOpts.Port, "port", 0, "port (only used when config.toml does not set one)")
	serveCmd.Flags().BoolVar(&serveOpts.DevMode, "dev", false, "development mode (request logging)")
	serveCmd.Flags().BoolVar(&serveOpts.NoBrowser, "no-browser", false, "do not open the browser")

	// 直接生成
	var genOpts GenerateOptions
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the tracking sheets without the web form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Generate(genOpts)
		},
	}
	generateCmd.Flags().StringVar(&genOpts.Roster, "roster", "", "employee spreadsheet (.xlsx, .xls, .csv)")
	generateCmd.Flags().StringVar(&genOpts.Start, "start", "", "start date (YYYY-MM-DD)")
	generateCmd.Flags().StringVar(&genOpts.End, "end", "", "end date (YYYY-MM-DD)")
	generateCmd.Flags().StringVar(&genOpts.Out, "out", "", "output folder")
	generateCmd.Flags().StringVar(&genOpts.Week, "week", "", "override the computed week label")
	generateCmd.Flags().StringVar(&genOpts.Format, "format", "", "pdf or xlsx")
	generateCmd.Flags().StringVar(&genOpts.Layout, "layout", "", "layout YAML file")
	generateCmd.Flags().StringVar(&genOpts.Logo, "logo", "", "logo image (png, jpg, gif)")

	// 周号计算
	var start, end string
	weekCmd := &cobra.Command{
		Use:   "week",
		Short: "Print the ISO week label for a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Week(start, end)
		},
	}
	weekCmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	weekCmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD)")
	_ = weekCmd.MarkFlagRequired("start")
	_ = weekCmd.MarkFlagRequired("end")

	// 生成历史
	var limit int
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent generations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.History(limit)
		},
	}
	historyCmd.Flags().IntVar(&limit, "limit", store.DefaultHistoryLimit, "number of rows")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(historyCmd)

	return rootCmd
}
