package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xelth-com/eckcheckin/internal/config"
	"github.com/xelth-com/eckcheckin/internal/models"
	"github.com/xelth-com/eckcheckin/internal/services/gateway"
)

const gatewayRule = "=================================================="

type gatewayOptions struct {
	format string
	strict bool
}

func newGatewayCmd(a *app) *cobra.Command {
	var (
		baseURL    string
		checksFile string
		timeout    time.Duration
		opts       gatewayOptions
	)

	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Smoke-test the deployed API gateway",
		Long: `Sends one GET per endpoint and reports whether API Gateway forwards it.

A 404 with {"detail": "Not Found"} means the gateway is swallowing the request;
200, 401, 403 and 422 mean the service itself answered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.Gateway
			flags := cmd.Flags()
			if flags.Changed("base-url") {
				cfg.BaseURL = strings.TrimRight(baseURL, "/")
			}
			if flags.Changed("checks") {
				cfg.ChecksFile = checksFile
			}
			if flags.Changed("timeout") {
				cfg.Timeout = timeout
			}
			if opts.format != "pretty" && opts.format != "json" {
				return fmt.Errorf("unsupported format %q (expected pretty|json)", opts.format)
			}
			return runGateway(cmd.Context(), a.out, a.logger, cfg, opts)
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "API base URL including the stage (default from GATEWAY_BASE_URL)")
	cmd.Flags().StringVarP(&checksFile, "checks", "c", "", "YAML file listing the endpoints to check")
	cmd.Flags().DurationVar(&timeout, "timeout", config.DefaultGatewayTimeout, "per-request timeout")
	cmd.Flags().StringVar(&opts.format, "format", "pretty", "output format: pretty|json")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit non-zero unless every endpoint reached the service")
	return cmd
}

func runGateway(ctx context.Context, out io.Writer, logger *zap.Logger, cfg config.GatewayConfig, opts gatewayOptions) error {
	endpoints, err := config.LoadEndpoints(cfg.ChecksFile)
	if err != nil {
		return err
	}

	clientCfg := gateway.DefaultClientConfig()
	if cfg.Timeout > 0 {
		clientCfg.Timeout = cfg.Timeout
	}
	checker := gateway.NewChecker(cfg.BaseURL,
		gateway.WithClient(gateway.NewClient(clientCfg)),
		gateway.WithLogger(logger),
	)

	var run models.GatewayRun
	if opts.format == "json" {
		run = checker.Run(ctx, endpoints, nil)
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(run); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, "🔍 Testing API Gateway...")
		fmt.Fprintf(out, "Base URL: %s\n", cfg.BaseURL)
		fmt.Fprintln(out, gatewayRule)

		run = checker.Run(ctx, endpoints, func(res models.EndpointResult) {
			fmt.Fprintln(out, gateway.FormatResult(res))
		})

		fmt.Fprintln(out, gatewayRule)
		fmt.Fprintln(out, "If you see ❌ API Gateway 404s, follow the fix guide!")
		fmt.Fprintln(out, "If you see ✅ Lambda responses, your API is working!")
	}

	if opts.strict && !run.Healthy() {
		bad := 0
		for _, res := range run.Results {
			if res.Verdict != models.VerdictServiceResponding {
				bad++
			}
		}
		return fmt.Errorf("%d of %d checks did not reach the service", bad, len(run.Results))
	}
	return nil
}
