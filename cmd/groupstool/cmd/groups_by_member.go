package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGroupsByMemberCmd() *cobra.Command {
	var args membershipArgs

	return &cobra.Command{
		Use:   usageLine("groups-by-member", argCert, argMember),
		Short: "Get a user's group memberships",
		Long: `Lists the groups a member belongs to, one group ID per line.

auth_cert is a PEM file holding the client certificate and its key.
member_uid is a NetID: 1-8 lowercase letters or digits, starting with a letter.`,
		Args: args.bind(argCert, argMember),
		RunE: func(cmd *cobra.Command, _ []string) error {
			groupsClient, err := sdkClient(cmd.Context(), args.certPath)
			if err != nil {
				return err
			}

			groups, err := groupsClient.GroupsByMember(cmd.Context(), args.member)
			if err != nil {
				return fmt.Errorf("failed to look up groups for %s: %w", args.member, err)
			}

			return printMembership(cmd, groups)
		},
	}
}
