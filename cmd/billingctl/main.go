package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/fastspring-bridge/internal/config"
	"github.com/samvad-hq/fastspring-bridge/internal/logger"
	"github.com/samvad-hq/fastspring-bridge/pkg/fastspring"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "billingctl: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "billingctl",
		Short: "One-shot FastSpring billing API operations",
		Long: strings.TrimSpace(`
billingctl invokes a single FastSpring billing API operation and prints the
response document as JSON. Credentials are read from the environment
(FASTSPRING_USERNAME, FASTSPRING_PASSWORD, FASTSPRING_COMPANY) or configs/.env.
`),
		Example: strings.TrimSpace(`
  billingctl get-order --ref ORD-123
  billingctl update-subscription --ref SUB-9 --set productName=pro-plan
  billingctl renew-subscription --ref SUB-9 --simulate success
`),
		SilenceUsage: true,
	}

	root.AddCommand(
		newGetOrderCmd(),
		newGenerateCouponCmd(),
		newGetSubscriptionCmd(),
		newUpdateSubscriptionCmd(),
		newCancelSubscriptionCmd(),
		newRenewSubscriptionCmd(),
	)
	return root
}

// buildClient loads configuration and constructs the API client. The caller
// owns the returned logger and must Close it to flush buffered entries.
func buildClient() (*fastspring.Client, *logger.ZapLogger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	client, err := fastspring.New(
		cfg.FastSpringUsername,
		cfg.FastSpringPassword,
		cfg.FastSpringCompany,
		fastspring.WithBaseURL(cfg.FastSpringBaseURL),
		fastspring.WithTimeout(cfg.HTTPTimeout),
		fastspring.WithLogger(log),
	)
	if err != nil {
		log.Close()
		return nil, nil, err
	}
	return client, log, nil
}

func printDocument(cmd *cobra.Command, doc fastspring.Document) error {
	if doc == nil {
		return nil
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func newGetOrderCmd() *cobra.Command {
	var ref string
	cmd := &cobra.Command{
		Use:   "get-order",
		Short: "Retrieve an order by its reference ID",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, log, err := buildClient()
			if err != nil {
				return err
			}
			defer log.Close()
			doc, err := client.GetOrder(cmd.Context(), ref)
			if err != nil {
				return err
			}
			return printDocument(cmd, doc)
		},
	}
	cmd.Flags().StringVar(&ref, "ref", "", "order reference ID")
	cmd.MarkFlagRequired("ref")
	return cmd
}

func newGenerateCouponCmd() *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "generate-coupon",
		Short: "Generate a coupon code from a prefix",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, log, err := buildClient()
			if err != nil {
				return err
			}
			defer log.Close()
			doc, err := client.GenerateCoupon(cmd.Context(), prefix)
			if err != nil {
				return err
			}
			return printDocument(cmd, doc)
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "coupon prefix")
	cmd.MarkFlagRequired("prefix")
	return cmd
}

func newGetSubscriptionCmd() *cobra.Command {
	var ref string
	cmd := &cobra.Command{
		Use:   "get-subscription",
		Short: "Retrieve a subscription by its reference ID",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, log, err := buildClient()
			if err != nil {
				return err
			}
			defer log.Close()
			doc, err := client.GetSubscription(cmd.Context(), ref)
			if err != nil {
				return err
			}
			return printDocument(cmd, doc)
		},
	}
	cmd.Flags().StringVar(&ref, "ref", "", "subscription reference ID")
	cmd.MarkFlagRequired("ref")
	return cmd
}

func newUpdateSubscriptionCmd() *cobra.Command {
	var ref string
	var sets []string
	cmd := &cobra.Command{
		Use:   "update-subscription",
		Short: "Update subscription fields",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := buildFields(sets)
			if err != nil {
				return err
			}
			client, log, err := buildClient()
			if err != nil {
				return err
			}
			defer log.Close()
			doc, err := client.UpdateSubscription(cmd.Context(), ref, data)
			if err != nil {
				return err
			}
			return printDocument(cmd, doc)
		},
	}
	cmd.Flags().StringVar(&ref, "ref", "", "subscription reference ID")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field to set, tag=value (dotted tags nest)")
	cmd.MarkFlagRequired("ref")
	cmd.MarkFlagRequired("set")
	return cmd
}

func newCancelSubscriptionCmd() *cobra.Command {
	var ref string
	cmd := &cobra.Command{
		Use:   "cancel-subscription",
		Short: "Cancel a subscription by its reference ID",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, log, err := buildClient()
			if err != nil {
				return err
			}
			defer log.Close()
			doc, err := client.CancelSubscription(cmd.Context(), ref)
			if err != nil {
				return err
			}
			if doc == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "subscription canceled")
				return nil
			}
			return printDocument(cmd, doc)
		},
	}
	cmd.Flags().StringVar(&ref, "ref", "", "subscription reference ID")
	cmd.MarkFlagRequired("ref")
	return cmd
}

func newRenewSubscriptionCmd() *cobra.Command {
	var ref, simulate string
	cmd := &cobra.Command{
		Use:   "renew-subscription",
		Short: "Renew a subscription, optionally as a dry run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, log, err := buildClient()
			if err != nil {
				return err
			}
			defer log.Close()
			res, err := client.RenewSubscription(cmd.Context(), ref, simulate)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok=%t status=%d reason=%s\n", res.OK, res.Status, res.Reason)
			if !res.OK {
				return fmt.Errorf("renewal failed with status %d %s", res.Status, res.Reason)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&ref, "ref", "", "subscription reference ID")
	cmd.Flags().StringVar(&simulate, "simulate", "", "simulate value for a dry run instead of an actual charge")
	cmd.MarkFlagRequired("ref")
	return cmd
}

// buildFields turns repeated tag=value pairs into a payload document.
// Dotted tags nest: customer.email=x becomes {customer: {email: x}}.
func buildFields(sets []string) (fastspring.Document, error) {
	data := fastspring.Document{}
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid --set %q (want tag=value)", s)
		}

		parts := strings.Split(strings.TrimSpace(key), ".")
		cur := map[string]any(data)
		for i, part := range parts {
			if i == len(parts)-1 {
				cur[part] = value
				break
			}
			next, ok := cur[part].(map[string]any)
			if !ok {
				next = map[string]any{}
				cur[part] = next
			}
			cur = next
		}
	}
	return data, nil
}
