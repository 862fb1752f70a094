package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Overland-East-Bay/transit-records/internal/app/records"
)

type dumpFunc func(ctx context.Context, svc *records.Service) (any, error)

func list[T any](get func(*records.Service, context.Context) ([]T, error)) dumpFunc {
	return func(ctx context.Context, svc *records.Service) (any, error) {
		return get(svc, ctx)
	}
}

func dumpCurrentUser(ctx context.Context, svc *records.Service) (any, error) {
	u, ok, err := svc.GetCurrentUser(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return u, nil
}

var dumpers = map[string]dumpFunc{
	"users":                 list((*records.Service).GetUsers),
	"passengers":            list((*records.Service).GetPassengers),
	"conductors":            list((*records.Service).GetConductors),
	"trips":                 list((*records.Service).GetTrips),
	"signatures":            list((*records.Service).GetSignatures),
	"conductor-credentials": list((*records.Service).GetConductorCredentials),
	"current-user":          dumpCurrentUser,
}

func collectionNames() []string {
	names := make([]string, 0, len(dumpers))
	for n := range dumpers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (c *cli) newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <collection>",
		Short: "Print a collection as the façade reads it",
		Long: fmt.Sprintf(`Print a collection using the same read path as the API.

Collections: %s

Examples:
  recordsctl dump passengers
  recordsctl dump trips -o yaml`, strings.Join(collectionNames(), ", ")),
		Args:      cobra.ExactArgs(1),
		ValidArgs: collectionNames(),
		RunE: c.withRuntime(func(cmd *cobra.Command, args []string) error {
			dump, ok := dumpers[args[0]]
			if !ok {
				return fmt.Errorf("unknown collection %q (want one of %s)", args[0], strings.Join(collectionNames(), ", "))
			}
			v, err := dump(cmd.Context(), c.rt.Records)
			if err != nil {
				return err
			}
			return c.formatOutput(cmd.OutOrStdout(), v)
		}),
	}
}
