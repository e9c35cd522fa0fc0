package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/martijn/clientcrud/internal/core/domain"
	"github.com/martijn/clientcrud/internal/core/service"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newClientsCmd(a *app) *cobra.Command {
	clientsCmd := &cobra.Command{
		Use:   "clients",
		Short: "Manage clients",
		Long:  "List, inspect, save and delete client records",
	}

	clientsCmd.AddCommand(newClientsListCmd(a))
	clientsCmd.AddCommand(newClientsGetCmd(a))
	clientsCmd.AddCommand(newClientsSaveCmd(a))
	clientsCmd.AddCommand(newClientsDeleteCmd(a))

	return clientsCmd
}

func newClientsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := a.initServices(cmd.Context())
			if err != nil {
				return err
			}
			defer services.Close()

			result, err := services.ClientService.GetClients(cmd.Context())
			if err != nil {
				return err
			}

			return printResult(cmd.OutOrStdout(), result)
		},
	}
}

func newClientsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <client-id>",
		Short: "Show a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			services, err := a.initServices(cmd.Context())
			if err != nil {
				return err
			}
			defer services.Close()

			result, err := services.ClientService.GetClient(cmd.Context(), id)
			if err != nil {
				return err
			}

			return printResult(cmd.OutOrStdout(), result)
		},
	}
}

func newClientsSaveCmd(a *app) *cobra.Command {
	var client domain.Client

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create a client, or update one with --id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := a.initServices(cmd.Context())
			if err != nil {
				return err
			}
			defer services.Close()

			result, err := services.ClientService.SaveOrUpdate(cmd.Context(), &client)
			if err != nil {
				return err
			}

			return printResult(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().Int64Var(&client.ID, "id", 0, "id of the client to update")
	cmd.Flags().StringVar(&client.Name, "name", "", "client name")
	cmd.Flags().StringVar(&client.Email, "email", "", "client email (must be unique)")
	cmd.Flags().StringVar(&client.Phone, "phone", "", "client phone")
	cmd.Flags().StringVar(&client.Address, "address", "", "client address")
	cmd.Flags().StringVar(&client.City, "city", "", "client city")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newClientsDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <client-id>",
		Short: "Delete a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if !yes {
				if !term.IsTerminal(int(os.Stdin.Fd())) {
					return fmt.Errorf("refusing to delete client %d without --yes on a non-interactive terminal", id)
				}

				// Confirm deletion
				fmt.Fprintf(cmd.OutOrStdout(), "Are you sure you want to delete client %d? (yes/no): ", id)
				confirm, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if strings.TrimSpace(confirm) != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			services, err := a.initServices(cmd.Context())
			if err != nil {
				return err
			}
			defer services.Close()

			result, err := services.ClientService.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}

			return printResult(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

// printResult writes an OK result to out. A NOT_FOUND result becomes the
// command error so the process exits non-zero.
func printResult(out io.Writer, result *service.Result) error {
	if !result.IsOK() {
		msg, _ := result.Message()
		return errors.New(msg)
	}

	switch body := result.Body.(type) {
	case string:
		fmt.Fprintln(out, body)
	case []*domain.Client:
		printClients(out, body)
	case domain.Optional[*domain.Client]:
		if client, ok := body.Get(); ok {
			printClients(out, []*domain.Client{client})
		}
	default:
		fmt.Fprintf(out, "%v\n", body)
	}
	return nil
}

func printClients(out io.Writer, clients []*domain.Client) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tADDRESS\tCITY")
	for _, client := range clients {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			client.ID,
			client.Name,
			client.Email,
			client.Phone,
			client.Address,
			client.City,
		)
	}
	w.Flush()
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid client id: %s", arg)
	}
	return id, nil
}
