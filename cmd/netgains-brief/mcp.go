package main

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	briefmcp "github.com/nhanzalone1/netgains/internal/mcp"
	"github.com/spf13/cobra"
)

func mcpCmd(logLevel *string) *cobra.Command {
	var user, remote, apiKey string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the daily brief to an MCP client over stdio",
		Long: `Serve the daily brief to an MCP client over stdio.

Briefs are fetched from a running NetGains server, so the client only needs
this binary and network access to the server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUser(user)
			if err != nil {
				return err
			}
			log := newLogger(*logLevel)
			src := briefmcp.NewHTTPClient(remote, apiKey)
			s := briefmcp.New(src, Version, log)
			log.Info("serving MCP over stdio", "remote", remote, "user_id", userID)
			return server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
				return briefmcp.WithUserID(ctx, userID)
			}))
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User ID (UUID) the briefs are computed for")
	cmd.Flags().StringVar(&remote, "remote", "", "Base URL of a running NetGains server")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for the server")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("remote")

	return cmd
}
