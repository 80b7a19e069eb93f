package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/syndicate-prices/internal/config"
	"github.com/sells-group/syndicate-prices/internal/fetcher"
	"github.com/sells-group/syndicate-prices/internal/market"
	"github.com/sells-group/syndicate-prices/internal/offering"
	"github.com/sells-group/syndicate-prices/internal/pricing"
	"github.com/sells-group/syndicate-prices/internal/wiki"
)

var (
	pricesSyndicate string
	pricesRules     string
)

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Check current prices for a syndicate's offerings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		name := pricesSyndicate
		if name == "" {
			name = cfg.Wiki.Syndicate
		}
		syndicate, err := wiki.ParseSyndicate(name)
		if err != nil {
			return err
		}

		rulesFile := pricesRules
		if rulesFile == "" {
			rulesFile = cfg.Offerings.RulesFile
		}
		rules, err := buildRules(cfg.Offerings, rulesFile)
		if err != nil {
			return err
		}

		f := newFetcher(cfg.HTTP)
		wikiClient, err := wiki.NewClient(f, cfg.Wiki.BaseURL)
		if err != nil {
			return eris.Wrap(err, "init wiki client")
		}

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "init cache store")
		}
		defer st.Close() //nolint:errcheck

		runner := &pricing.Runner{
			Pages:     wikiClient,
			Extractor: offering.New(rules),
			Market:    market.NewClient(f, market.WithBaseURL(cfg.Market.BaseURL)),
			Throttle:  pricing.FixedDelay{Delay: cfg.Market.Throttle()},
			Store:     st,
			Clock:     time.Now,
			TTL:       cfg.Cache.TTL(),
		}

		report, _, err := runner.Run(ctx, syndicate)
		if err != nil {
			return err
		}
		return report.Write(cmd.OutOrStdout())
	},
}

func init() {
	pricesCmd.Flags().StringVarP(&pricesSyndicate, "syndicate", "s", "", "syndicate wiki identifier (default from wiki.syndicate)")
	pricesCmd.Flags().StringVar(&pricesRules, "rules", "", "YAML file with extra offering keywords and aliases")
	rootCmd.AddCommand(pricesCmd)
}

func newFetcher(c config.HTTPConfig) *fetcher.HTTPFetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:    c.UserAgent,
		Timeout:      time.Duration(c.TimeoutSecs) * time.Second,
		MaxRetries:   c.MaxRetries,
		RateLimiters: fetcher.DefaultRateLimiters(),
	})
}

// buildRules layers the config file's offering settings and the optional
// rules file over the built-in rules.
func buildRules(c config.OfferingsConfig, rulesFile string) (offering.Rules, error) {
	fromConfig := offering.Rules{
		Keywords: c.Keywords,
		Aliases:  make(map[string]string, len(c.Aliases)),
		Dedupe:   c.Dedupe,
	}
	for _, a := range c.Aliases {
		fromConfig.Aliases[a.From] = a.To
	}
	rules := offering.DefaultRules().Merge(fromConfig)

	if rulesFile != "" {
		fromFile, err := offering.LoadRules(rulesFile)
		if err != nil {
			return offering.Rules{}, err
		}
		rules = rules.Merge(fromFile)
	}
	return rules, nil
}
