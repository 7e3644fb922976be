package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListMembersCmd() *cobra.Command {
	var args membershipArgs

	return &cobra.Command{
		Use:   usageLine("list-members", argCert, argGroup),
		Short: "List group members",
		Long: `Lists the members of a group, one NetID per line.

auth_cert is a PEM file holding the client certificate and its key.
group_id typically starts with u_ or uw_.`,
		Args: args.bind(argCert, argGroup),
		RunE: func(cmd *cobra.Command, _ []string) error {
			groupsClient, err := sdkClient(cmd.Context(), args.certPath)
			if err != nil {
				return err
			}

			members, err := groupsClient.ListMembers(cmd.Context(), args.group)
			if err != nil {
				return fmt.Errorf("failed to list members of %s: %w", args.group, err)
			}

			return printMembership(cmd, members)
		},
	}
}
