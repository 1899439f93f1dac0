package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"

	"github.com/sells-group/sdr-ops/internal/agent"
	"github.com/sells-group/sdr-ops/internal/governance"
	"github.com/sells-group/sdr-ops/internal/metrics"
	"github.com/sells-group/sdr-ops/internal/prompt"
	"github.com/sells-group/sdr-ops/internal/scoring"
	"github.com/sells-group/sdr-ops/internal/store"
	"github.com/sells-group/sdr-ops/pkg/llm"
	sfpkg "github.com/sells-group/sdr-ops/pkg/salesforce"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "sdr.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initAdapter builds the model adapter. Without an API key the adapter is
// permanently unavailable and qualification falls back to score-only
// decisions.
func initAdapter() *llm.Adapter {
	var client llm.Client
	if cfg.Anthropic.Key != "" {
		client = llm.NewClient(cfg.Anthropic.Key)
	}
	return llm.NewAdapter(client, llm.AdapterConfig{
		Model:      cfg.Anthropic.Model,
		MaxTokens:  cfg.Anthropic.MaxTokens,
		Timeout:    time.Duration(cfg.Qualify.TimeoutSecs) * time.Second,
		MaxRetries: cfg.Qualify.MaxRetries,
		RetryDelay: time.Duration(cfg.Qualify.RetryDelayMs) * time.Millisecond,
		RateRPS:    cfg.Anthropic.RateRPS,
		OnRetry: func(attempt int, err error) {
			metrics.ModelRetries.Inc()
		},
	})
}

func initQualifier(st store.Store) *agent.Qualifier {
	return agent.NewQualifier(
		st,
		initAdapter(),
		scoring.DefaultConfig(cfg.Qualify.Threshold),
		governance.NewEvaluator(cfg.Governance.Competitors),
		cfg.Qualify.DefaultVariant,
	)
}

func initRunner(st store.Store, q *agent.Qualifier) *agent.Runner {
	return agent.NewRunner(st, q, agent.RunnerConfig{
		MaxLeads:    cfg.Campaign.MaxLeadsPerRun,
		Concurrency: cfg.Campaign.Concurrency,
	})
}

func initSalesforce() (sfpkg.Client, error) {
	if cfg.Salesforce.ClientID == "" {
		return nil, eris.New("salesforce client ID is required (SDR_SALESFORCE_CLIENT_ID)")
	}

	pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	sf, err := salesforce.Init(salesforce.Creds{
		Domain:         cfg.Salesforce.LoginURL,
		Username:       cfg.Salesforce.Username,
		ConsumerKey:    cfg.Salesforce.ClientID,
		ConsumerRSAPem: string(pemData),
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	return sfpkg.NewClient(sf, sfpkg.WithRateLimit(cfg.Salesforce.RateRPS)), nil
}

func defaultVariant() string {
	if cfg.Qualify.DefaultVariant != "" {
		return cfg.Qualify.DefaultVariant
	}
	return prompt.VariantA
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
