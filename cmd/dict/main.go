package main

import (
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"

	"github.com/heysubinoy/pyazdict/api/dictrpc"
	"github.com/heysubinoy/pyazdict/internal/api"
	"github.com/heysubinoy/pyazdict/internal/console"
	"github.com/heysubinoy/pyazdict/internal/i18n"
	"github.com/heysubinoy/pyazdict/internal/session"
	"github.com/heysubinoy/pyazdict/internal/store"
	"github.com/heysubinoy/pyazdict/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	configPath string
	lang       string
}

// newRootCmd builds the command tree. Input and output are injected so the
// interactive console can be driven from tests.
func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Three policy-checked dictionaries backed by key=value files.",
		Long: `dict keeps three dictionaries, each with its own key rule:
  first   keys of exactly 4 latin letters
  second  keys of exactly 5 digits
  third   lowercase latin letters and '#', where '#' erases the previous
          letter when checking for duplicates

Running without a subcommand starts the interactive console.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(opts)
			if err != nil {
				return err
			}
			return runConsole(cfg, in, out)
		},
	}
	cmd.SetIn(in)
	cmd.SetOut(out)

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.lang, "lang", "", "message language (en, ru)")

	cmd.AddCommand(newServeCmd(&opts))
	return cmd
}

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dictionaries over HTTP and gRPC.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(*opts)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
}

func setup(opts options) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.lang != "" {
		cfg.Language = opts.lang
	}
	if err := i18n.Init(cfg.Language); err != nil {
		return nil, fmt.Errorf("init i18n: %w", err)
	}
	return cfg, nil
}

func newSession(cfg *config.Config, c *store.Collectors) *session.Session {
	return session.New(session.Options{
		Files:      cfg.Files(),
		PageSize:   cfg.PageSize,
		Autosave:   cfg.AutosaveEnabled(),
		Collectors: c,
	})
}

func runConsole(cfg *config.Config, in io.Reader, out io.Writer) error {
	sess := newSession(cfg, nil)

	c := console.New(sess, in, out)
	c.ReportLoad(sess.LoadAll())
	if err := c.Run(); err != nil {
		return err
	}

	if !sess.Autosave() {
		return sess.SaveAll()
	}
	return nil
}

func serve(cfg *config.Config) error {
	reg := prometheus.NewRegistry()
	sess := newSession(cfg, store.NewCollectors(reg))

	for _, r := range sess.LoadAll() {
		if r.Err != nil {
			log.Printf("Failed to load dictionary %s from %s: %v", r.Name, r.Path, r.Err)
			continue
		}
		log.Printf("Loaded dictionary %s from %s", r.Name, r.Path)
	}

	// Start gRPC server in a goroutine
	go func() {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			log.Fatalf("Failed to listen on %s: %v", cfg.GRPCAddr, err)
		}

		grpcServer := grpc.NewServer()
		dictrpc.RegisterDictServiceServer(grpcServer, api.NewGRPCServer(sess))

		log.Printf("gRPC server listening on %s", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("Failed to serve gRPC: %v", err)
		}
	}()

	mux := http.NewServeMux()
	api.NewServer(sess).RegisterRoutes(mux)
	api.RegisterMetrics(mux, sess, reg)

	log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
	return http.ListenAndServe(cfg.HTTPAddr, mux)
}
