package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jcmexdev/membership-checkout/internal/app"
	"github.com/jcmexdev/membership-checkout/internal/checkout/core/domain/entity"
	"github.com/jcmexdev/membership-checkout/internal/checkout/presenter"
	"github.com/jcmexdev/membership-checkout/internal/checkout/service"
	"github.com/jcmexdev/membership-checkout/internal/config"
)

func newConfirmCmd() *cobra.Command {
	var (
		raw      bool
		language string
	)
	cmd := &cobra.Command{
		Use:   "confirm [mdOrder]",
		Short: "Fetch the gateway state of an order and print the receipt view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			gw := app.NewGatewayClient(config.C().Gateway)

			outcome, err := gw.Confirm(cmd.Context(), args[0], language)
			if err != nil {
				return err
			}
			if raw {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(outcome.Raw))
				return err
			}
			return printJSON(cmd.OutOrStdout(), presenter.Present(outcome))
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the gateway payload unchanged")
	cmd.Flags().StringVarP(&language, "language", "l", "", "gateway response language")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var params entity.InitiateParams
	var amount string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new order and print the payment form URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			gwCfg := config.C().Gateway
			checkout := service.NewCheckout(app.NewOrderBuilder(gwCfg), app.NewGatewayClient(gwCfg), service.Options{})

			params.Amount = amount
			res, err := checkout.Initiate(cmd.Context(), params)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "amount in major units, e.g. 1500.00")
	cmd.Flags().StringVar(&params.PlanID, "plan", "", "membership plan id")
	cmd.Flags().StringVar(&params.UserID, "user", "", "member id")
	cmd.Flags().StringVar(&params.Description, "description", "", "order description")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newReasonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reason [errorCode]",
		Short: "Print the customer-facing reason for a gateway error code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), presenter.FailureReason(args[0]))
			return err
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
