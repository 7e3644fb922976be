package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRemoveMemberCmd() *cobra.Command {
	var args membershipArgs

	return &cobra.Command{
		Use:   usageLine("remove-member", argCert, argGroup, argMember),
		Short: "Remove a user from a group",
		Long: `Removes a member from a group and prints the status code the service
answered with. A 4xx or 5xx answer is printed, not treated as a failure.`,
		Args: args.bind(argCert, argGroup, argMember),
		RunE: func(cmd *cobra.Command, _ []string) error {
			groupsClient, err := sdkClient(cmd.Context(), args.certPath)
			if err != nil {
				return err
			}

			result, err := groupsClient.RemoveMember(cmd.Context(), args.group, args.member)
			if err != nil {
				return fmt.Errorf("failed to remove %s from %s: %w", args.member, args.group, err)
			}

			return printResult(cmd, result)
		},
	}
}
