package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/heysubinoy/pyazdict/api/dictrpc"
	"github.com/heysubinoy/pyazdict/pkg/config"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func main() {
	if err := newRootCmd(dial).Execute(); err != nil {
		os.Exit(1)
	}
}

// dialFunc opens a client for addr and returns a function releasing it.
type dialFunc func(addr string) (*dictrpc.Client, func() error, error)

func dial(addr string) (*dictrpc.Client, func() error, error) {
	// If the address starts with ":", it's missing a host - use localhost
	if len(addr) > 0 && addr[0] == ':' {
		addr = "localhost" + addr
	}

	// Connect using passthrough resolver for direct address connection
	conn, err := grpc.NewClient("passthrough:///"+addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect: %w", err)
	}
	return dictrpc.NewClient(conn), conn.Close, nil
}

func newRootCmd(dial dialFunc) *cobra.Command {
	var (
		addr    string
		dict    string
		timeout time.Duration
	)

	defaultAddr := os.Getenv("DICT_GRPC_ADDR")
	if defaultAddr == "" {
		defaultAddr = config.DefaultGRPCAddr
	}

	root := &cobra.Command{
		Use:          "dict-cli",
		Short:        "Remote client for a dict server.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&addr, "addr", defaultAddr, "gRPC server address (env DICT_GRPC_ADDR)")
	root.PersistentFlags().StringVarP(&dict, "dict", "d", "first", "dictionary name: first, second or third")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Second, "request timeout")

	// withClient runs fn with a connected client and a request context.
	withClient := func(cmd *cobra.Command, fn func(context.Context, *dictrpc.Client, io.Writer) error) error {
		client, closeFn, err := dial(addr)
		if err != nil {
			return err
		}
		defer closeFn()

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		return fn(ctx, client, cmd.OutOrStdout())
	}

	root.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print the value stored under key.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *dictrpc.Client, out io.Writer) error {
				value, found, err := c.Get(ctx, dict, args[0])
				if err != nil {
					return fmt.Errorf("get failed: %w", err)
				}
				if !found {
					return fmt.Errorf("key '%s' not found", args[0])
				}
				fmt.Fprintln(out, value)
				return nil
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store value under key if the dictionary accepts the key.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *dictrpc.Client, out io.Writer) error {
				if err := c.Set(ctx, dict, args[0], args[1]); err != nil {
					return fmt.Errorf("set failed: %w", err)
				}
				fmt.Fprintf(out, "Set '%s' = '%s'\n", args[0], args[1])
				return nil
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "delete <key>",
		Short: "Remove key.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *dictrpc.Client, out io.Writer) error {
				if err := c.Delete(ctx, dict, args[0]); err != nil {
					return fmt.Errorf("delete failed: %w", err)
				}
				fmt.Fprintf(out, "Deleted '%s'\n", args[0])
				return nil
			})
		},
	})

	var size int
	pageCmd := &cobra.Command{
		Use:   "page [n]",
		Short: "Print one page of entries (default page 1).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 1
			if len(args) == 1 {
				var err error
				if n, err = strconv.Atoi(args[0]); err != nil {
					return fmt.Errorf("invalid page %q", args[0])
				}
			}
			return withClient(cmd, func(ctx context.Context, c *dictrpc.Client, out io.Writer) error {
				p, err := c.Page(ctx, dict, n, size)
				if err != nil {
					return fmt.Errorf("page failed: %w", err)
				}
				fmt.Fprintf(out, "Page %d of %d\n", p.Number, p.Total)
				for _, e := range p.Entries {
					fmt.Fprintf(out, "%s = %s\n", e.Key, e.Value)
				}
				return nil
			})
		},
	}
	pageCmd.Flags().IntVar(&size, "size", config.DefaultPageSize, "entries per page")
	root.AddCommand(pageCmd)

	return root
}
