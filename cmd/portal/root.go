package main

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JavierCodely/sistema-educativo/internal/client"
	"github.com/JavierCodely/sistema-educativo/internal/workflow"
	"github.com/JavierCodely/sistema-educativo/pkg/config"
)

var errActionFailed = errors.New("action failed")

type globalFlags struct {
	api     string
	token   string
	offline bool
	verbose bool
}

type gatewayFactory func(flags globalFlags, logger *zap.Logger) (client.Gateway, error)

type app struct {
	gateway client.Gateway
	logger  *zap.Logger
	out     io.Writer
	in      io.Reader
}

func newRootCmd(factory gatewayFactory) *cobra.Command {
	var flags globalFlags
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "portal",
		Short:         "Student portal terminal client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if flags.verbose {
				logger, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				a.logger = logger
			}
			gw, err := factory(flags, a.logger)
			if err != nil {
				return err
			}
			a.gateway = gw
			a.out = cmd.OutOrStdout()
			a.in = cmd.InOrStdin()
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flags.api, "api", "", "portal API base URL (default from PORTAL_API_URL)")
	root.PersistentFlags().StringVar(&flags.token, "token", "", "access token (default from PORTAL_API_TOKEN)")
	root.PersistentFlags().BoolVar(&flags.offline, "offline", false, "use the built-in sample catalog instead of the API")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log requests and failures to stderr")

	root.AddCommand(
		newSubjectsCmd(a),
		newBoardsCmd(a),
		newEnrollmentsCmd(a),
		newEnrollCmd(a),
		newCancelCmd(a),
		newNotificationsCmd(a),
	)
	return root
}

func defaultGateway(flags globalFlags, logger *zap.Logger) (client.Gateway, error) {
	if flags.offline {
		return client.NewMemoryBackend(client.SampleSeed()), nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	portal := cfg.Portal
	if flags.api != "" {
		portal.APIURL = strings.TrimRight(flags.api, "/")
	}
	if flags.token != "" {
		portal.Token = flags.token
	}
	if portal.Token == "" {
		return nil, errors.New("an access token is required: pass --token or set PORTAL_API_TOKEN")
	}
	return client.NewHTTPGateway(portal, logger), nil
}

// controller loads a fresh snapshot and wires the terminal as the notifier.
func (a *app) controller(ctx context.Context) (*workflow.Controller, error) {
	ctrl := workflow.New(a.gateway, nil, nil, workflow.Options{
		Logger:   a.logger,
		Notifier: terminalNotifier{out: a.out},
	})
	if err := ctrl.Reload(ctx, a.gateway); err != nil {
		return nil, err
	}
	return ctrl, nil
}
