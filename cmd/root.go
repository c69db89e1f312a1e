package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kitchenops/kitchenreport/internal/collector"
	"github.com/kitchenops/kitchenreport/internal/models"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "kitchenreport",
	Short: "Builds the monthly kitchen service-time report for all branches",
	Long: `kitchenreport pulls last month's fulfilled orders from the restaurant
management API day by day, computes kitchen preparation times per order,
aggregates them per branch and emails the resulting Excel report.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		col := collector.New(cfg)
		if err := col.Run(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Run failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.kitchenreport.yaml)")

	rootCmd.Flags().String("month", "", "Report month as YYYY-MM (default is the previous calendar month)")
	rootCmd.Flags().Duration("page-delay", 500*time.Millisecond, "Delay between successive result pages")
	rootCmd.Flags().Duration("day-delay", 3*time.Second, "Delay between business dates")
	rootCmd.Flags().Duration("rate-limit-wait", 10*time.Second, "Wait before retrying a rate-limited page")
	rootCmd.Flags().Int("rate-limit-retries", 0, "Max retries per rate-limited page, 0 means unlimited")
	rootCmd.Flags().Int("workers", 1, "Concurrent date fetches, 1 means fully sequential")
	rootCmd.Flags().Float64("delayed-threshold", 15, "Preparation minutes above which an order counts as delayed")
	rootCmd.Flags().String("smtp-host", "smtp.gmail.com", "SMTP submission host")
	rootCmd.Flags().Int("smtp-port", 587, "SMTP submission port")
	rootCmd.Flags().Bool("dry-run", false, "Build the report but skip sending the email")

	viper.BindPFlag("month", rootCmd.Flags().Lookup("month"))
	viper.BindPFlag("page_delay", rootCmd.Flags().Lookup("page-delay"))
	viper.BindPFlag("day_delay", rootCmd.Flags().Lookup("day-delay"))
	viper.BindPFlag("rate_limit_wait", rootCmd.Flags().Lookup("rate-limit-wait"))
	viper.BindPFlag("rate_limit_retries", rootCmd.Flags().Lookup("rate-limit-retries"))
	viper.BindPFlag("workers", rootCmd.Flags().Lookup("workers"))
	viper.BindPFlag("delayed_threshold", rootCmd.Flags().Lookup("delayed-threshold"))
	viper.BindPFlag("smtp_host", rootCmd.Flags().Lookup("smtp-host"))
	viper.BindPFlag("smtp_port", rootCmd.Flags().Lookup("smtp-port"))
	viper.BindPFlag("dry_run", rootCmd.Flags().Lookup("dry-run"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".kitchenreport")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
