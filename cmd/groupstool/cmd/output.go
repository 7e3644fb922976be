package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jtyocum/groupstool/cmd/groupstool/internal/config"
	"github.com/jtyocum/groupstool/pkg/sdk"
	"github.com/spf13/cobra"
)

// outputFormat returns the resolved output format. Before settings are
// loaded (argument errors) it falls back to the raw flag and environment.
func outputFormat(cmd *cobra.Command) string {
	if cmd == nil {
		return config.OutputText
	}
	if ctx := cmd.Context(); ctx != nil {
		if cfg, ok := config.FromContext(ctx); ok {
			return cfg.Output
		}
	}
	if cmd.Flags().Changed(config.FlagOutput) {
		v, _ := cmd.Flags().GetString(config.FlagOutput)
		return v
	}
	if v := os.Getenv("GROUPS_OUTPUT"); v != "" {
		return v
	}
	return config.OutputText
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printMembership writes one ID per line, or a JSON array.
func printMembership(cmd *cobra.Command, list sdk.MembershipList) error {
	out := cmd.OutOrStdout()
	if outputFormat(cmd) == config.OutputJSON {
		if list == nil {
			list = sdk.MembershipList{}
		}
		return printJSON(out, list)
	}
	for _, id := range list {
		if _, err := fmt.Fprintln(out, id); err != nil {
			return err
		}
	}
	return nil
}

type resultJSON struct {
	Operation string `json:"operation"`
	Member    string `json:"member"`
	Group     string `json:"group"`
	Status    int    `json:"status"`
	RequestID string `json:"request_id"`
}

// printResult reports a write operation's status code.
func printResult(cmd *cobra.Command, result *sdk.OperationResult) error {
	out := cmd.OutOrStdout()
	if outputFormat(cmd) == config.OutputJSON {
		return printJSON(out, resultJSON{
			Operation: result.Operation.String(),
			Member:    result.Member.String(),
			Group:     result.Group.String(),
			Status:    result.StatusCode,
			RequestID: result.RequestID,
		})
	}

	var err error
	switch result.Operation {
	case sdk.OpAddMember:
		_, err = fmt.Fprintf(out, "Adding member %s to group %s: %d\n", result.Member, result.Group, result.StatusCode)
	case sdk.OpRemoveMember:
		_, err = fmt.Fprintf(out, "Removing member %s from group %s: %d\n", result.Member, result.Group, result.StatusCode)
	default:
		_, err = fmt.Fprintf(out, "%s %s %s: %d\n", result.Operation, result.Group, result.Member, result.StatusCode)
	}
	return err
}
