package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hris-presensi-go/internal/client"
	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/geo"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/locator"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type checkKind string

const (
	checkIn  checkKind = "check-in"
	checkOut checkKind = "check-out"
)

type submitter interface {
	CheckIn(ctx context.Context, req attendance.CheckRequest) (attendance.CheckResult, error)
	CheckOut(ctx context.Context, req attendance.CheckRequest) (attendance.CheckResult, error)
}

var checkFlags = []string{"tolerance", "window", "gpsd", "static", "yes", "override", "reason"}

func newCheckCommand(v *viper.Viper, kind checkKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(kind),
		Short: fmt.Sprintf("Acquire a location fix and submit a %s", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// check-in and check-out share key names, so bind only the running command's flags
			for _, name := range checkFlags {
				if err := v.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
					return err
				}
			}

			server := v.GetString("server")
			token := v.GetString("token")
			if token == "" {
				return errors.New("a token is required (--token or PRESENSI_TOKEN)")
			}
			return runCheck(cmd, v, kind, client.New(server, token))
		},
	}

	flags := cmd.Flags()
	flags.Int("tolerance", int(locator.DefaultTolerance), "accuracy tolerance in meters (50, 100, 200, 500)")
	flags.Duration("window", locator.DefaultWindow, "how long to keep sampling for a better fix")
	flags.String("gpsd", locator.DefaultGPSDAddr, "gpsd address to read fixes from")
	flags.String("static", "", "use a fixed position instead of gpsd: lat,lon[,accuracy]")
	flags.BoolP("yes", "y", false, "submit an out-of-tolerance fix without asking")
	flags.Bool("override", false, "request a geofence override")
	flags.String("reason", "", "reason for the override")
	return cmd
}

func runCheck(cmd *cobra.Command, v *viper.Viper, kind checkKind, api submitter) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	tolerance, err := locator.ParseTolerance(v.GetInt("tolerance"))
	if err != nil {
		return err
	}

	provider, err := providerFor(v.GetString("static"), v.GetString("gpsd"))
	if err != nil {
		return err
	}

	sampler, err := locator.NewSampler(provider, locator.Config{
		Tolerance: tolerance,
		Window:    v.GetDuration("window"),
		OnState: func(s locator.State) {
			fmt.Fprintf(errOut, "location: %s\n", s)
		},
	})
	if err != nil {
		return err
	}

	reading, err := sampler.Acquire(ctx, string(kind))
	if err != nil {
		return fmt.Errorf("failed to acquire location: %w", err)
	}

	confirmed := v.GetBool("yes")
	if !reading.WithinTolerance() && !confirmed {
		confirmed, err = confirm(cmd.InOrStdin(), errOut, reading)
		if err != nil {
			return err
		}
	}

	fix, err := reading.Accept(confirmed)
	if err != nil {
		return err
	}

	req := attendance.CheckRequest{
		Latitude:       fix.Latitude,
		Longitude:      fix.Longitude,
		Accuracy:       &fix.Accuracy,
		Override:       v.GetBool("override"),
		OverrideReason: v.GetString("reason"),
	}

	submit := api.CheckIn
	if kind == checkOut {
		submit = api.CheckOut
	}

	result, err := submit(ctx, req)
	printResult(out, kind, result)
	return err
}

// providerFor picks the static provider when spec is set, else gpsd at addr.
func providerFor(spec, addr string) (locator.Provider, error) {
	if spec == "" {
		return locator.NewGPSDProvider(addr), nil
	}
	return parseStatic(spec)
}

func parseStatic(spec string) (locator.StaticProvider, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 2 && len(parts) != 3 {
		return locator.StaticProvider{}, fmt.Errorf("invalid --static %q: want lat,lon[,accuracy]", spec)
	}

	values := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return locator.StaticProvider{}, fmt.Errorf("invalid --static %q: %w", spec, err)
		}
		values[i] = f
	}

	if !geo.ValidCoordinates(values[0], values[1]) {
		return locator.StaticProvider{}, fmt.Errorf("invalid --static %q: coordinates out of range", spec)
	}

	p := locator.StaticProvider{Latitude: values[0], Longitude: values[1]}
	if len(values) == 3 {
		p.Accuracy = values[2]
	}
	return p, nil
}

func confirm(in io.Reader, out io.Writer, r locator.Reading) (bool, error) {
	fmt.Fprintf(out, "Location accuracy is %.0fm, above the %.0fm tolerance. Submit anyway? [y/N] ",
		r.Fix.Accuracy, float64(r.Tolerance))

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func printResult(out io.Writer, kind checkKind, r attendance.CheckResult) {
	if r.Accepted {
		fmt.Fprintf(out, "%s accepted: %s\n", kind, r.Status)
		if r.Override {
			fmt.Fprintln(out, "recorded as a geofence override")
		}
		return
	}
	if r.Reason == "" {
		return
	}
	fmt.Fprintf(out, "%s rejected: %s", kind, r.Reason)
	if r.DistanceMeters != nil && r.RadiusMeters != nil {
		fmt.Fprintf(out, " (%.0fm from work site, radius %.0fm)", *r.DistanceMeters, *r.RadiusMeters)
	}
	fmt.Fprintln(out)
}
