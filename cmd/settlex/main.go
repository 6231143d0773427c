// settlex is an operator CLI for the matching and settlement engine. It
// runs every operation against a local data directory; there is no server.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/uhyunpark/settlex/params"
	"github.com/uhyunpark/settlex/pkg/exchange"
	"github.com/uhyunpark/settlex/pkg/identity"
	"github.com/uhyunpark/settlex/pkg/storage"
	"github.com/uhyunpark/settlex/pkg/util"
)

type app struct {
	cfg      params.Config
	svc      *exchange.Service
	registry *identity.Registry
	close    func() error
}

func (a *app) open() error {
	logger, err := util.NewLoggerWithFile(a.cfg.LogFile)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	var orders, settlements, identities storage.Medium
	switch a.cfg.Storage.Backend {
	case "pebble":
		db, err := storage.Open(filepath.Join(a.cfg.Storage.DataDir, "db"))
		if err != nil {
			return err
		}
		orders = db.Medium("orders")
		settlements = db.Medium("settlements")
		identities = db.Medium("identities")
		a.close = func() error {
			logger.Sync()
			return db.Close()
		}
	case "file":
		dir := a.cfg.Storage.DataDir
		orders = storage.NewFileMedium(filepath.Join(dir, "orders.json"))
		settlements = storage.NewFileMedium(filepath.Join(dir, "settlements.json"))
		identities = storage.NewFileMedium(filepath.Join(dir, "identities.json"))
		a.close = func() error {
			logger.Sync()
			return nil
		}
	default:
		return fmt.Errorf("unknown storage backend %q", a.cfg.Storage.Backend)
	}

	a.registry = identity.NewRegistry(identities)
	a.svc = exchange.NewService(
		exchange.NewOrderStore(orders, a.registry),
		exchange.NewSettlementStore(settlements),
		logger,
	)
	return nil
}

// rawArg reads inline JSON, or the contents of a file when the argument
// starts with "@".
func rawArg(s string) ([]byte, error) {
	if strings.HasPrefix(s, "@") {
		return os.ReadFile(s[1:])
	}
	return []byte(s), nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func main() {
	a := &app{}

	root := &cobra.Command{
		Use:           "settlex",
		Short:         "order matching and settlement engine",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			envPath, _ := cmd.Flags().GetString("env")
			a.cfg = params.LoadFromEnv(envPath)
			if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
				a.cfg.Storage.DataDir = dir
			}
			if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
				a.cfg.Storage.Backend = backend
			}
			return a.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().String("env", "", "path to .env file")
	root.PersistentFlags().String("data-dir", "", "data directory (overrides config)")
	root.PersistentFlags().String("backend", "", "storage backend: pebble or file")

	order := &cobra.Command{Use: "order", Short: "manage orders"}
	order.AddCommand(
		&cobra.Command{
			Use:   "put <key> <json|@file>",
			Short: "create an order (returns the existing one if the key is taken)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				raw, err := rawArg(args[1])
				if err != nil {
					return err
				}
				rec, err := a.svc.CreateOrGetOrder(cmd.Context(), args[0], raw)
				if err != nil {
					return err
				}
				return printJSON(rec)
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "show one order",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				rec, err := a.svc.GetOrder(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(rec)
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "list all orders",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				recs, err := a.svc.ListOrders(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(recs)
			},
		},
		&cobra.Command{
			Use:   "rm <key>",
			Short: "cancel an order (no-op if absent)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.svc.DeleteOrder(cmd.Context(), args[0])
			},
		},
	)
	root.AddCommand(order)

	root.AddCommand(&cobra.Command{
		Use:   "match <buy-key> <sell-key>",
		Short: "match a buy order against a sell order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, rec, err := a.svc.MatchOrders(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(exchange.FullSettlement{ID: key, Settlement: rec})
		},
	})

	settlement := &cobra.Command{Use: "settlement", Short: "manage settlements"}
	var partyFilter string
	settlementList := &cobra.Command{
		Use:   "list",
		Short: "list settlements, optionally for one party",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := a.svc.ListSettlements(cmd.Context(), partyFilter)
			if err != nil {
				return err
			}
			return printJSON(recs)
		},
	}
	settlementList.Flags().StringVar(&partyFilter, "party", "", "filter by party external id")
	settlement.AddCommand(
		&cobra.Command{
			Use:   "put <key> <json|@file>",
			Short: "create or replace a settlement (used to flip isPaid/isDelivered)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				raw, err := rawArg(args[1])
				if err != nil {
					return err
				}
				rec, err := a.svc.PutSettlement(cmd.Context(), args[0], raw)
				if err != nil {
					return err
				}
				return printJSON(rec)
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "show one settlement",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				rec, err := a.svc.GetSettlement(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(rec)
			},
		},
		settlementList,
	)
	root.AddCommand(settlement)

	identityCmd := &cobra.Command{Use: "identity", Short: "manage known identities"}
	identityCmd.AddCommand(&cobra.Command{
		Use:   "add <identity> [portfolio...]",
		Short: "register a known identity and its sub-account numbers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			portfolios := make([]uint64, 0, len(args)-1)
			for _, s := range args[1:] {
				n, err := strconv.ParseUint(s, 10, 64)
				if err != nil {
					return fmt.Errorf("portfolio %q: %w", s, err)
				}
				portfolios = append(portfolios, n)
			}
			return a.registry.Add(cmd.Context(), exchange.Identity(args[0]), portfolios...)
		},
	})
	root.AddCommand(identityCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
