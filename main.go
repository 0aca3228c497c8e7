package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/shazow/wifiselect/internal/tui"
	"github.com/shazow/wifiselect/wifi"
)

var (
	// Version is the version of the application. It is set at build time.
	Version string = "dev"
)

// stringList is a repeatable string flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// withSession opens a session around fn.
func withSession(o *options, interactive bool, fn func(ctx context.Context, s *session) error) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		s, err := o.open(ctx, interactive)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(ctx, s)
	}
}

func newRootCommand(o *options, w io.Writer) *ffcli.Command {
	rootFlagSet := flag.NewFlagSet("wifiselect", flag.ContinueOnError)
	rootFlagSet.StringVar(&o.configPath, "config", "", "path to config toml file (env: WIFISELECT_CONFIG)")
	rootFlagSet.StringVar(&o.backend, "backend", backendAuto, "radio backend: auto, networkmanager, iwd or mock (env: WIFISELECT_BACKEND)")
	rootFlagSet.StringVar(&o.iface, "iface", "", "wireless interface to scan on, default is the first one (env: WIFISELECT_IFACE)")
	rootFlagSet.StringVar(&o.storePath, "store", "", "path to the saved networks database (env: WIFISELECT_STORE)")
	rootFlagSet.BoolVar(&o.debug, "debug", false, "enable debug logging (env: WIFISELECT_DEBUG)")
	version := rootFlagSet.Bool("version", false, "display version")

	scanFlagSet := flag.NewFlagSet("scan", flag.ContinueOnError)
	scanJSON := scanFlagSet.Bool("json", false, "output in JSON format")
	scanCmd := &ffcli.Command{
		Name:       "scan",
		ShortUsage: "wifiselect scan [-json]",
		ShortHelp:  "Run a scan round and list the networks in range",
		FlagSet:    scanFlagSet,
		Exec: withSession(o, false, func(ctx context.Context, s *session) error {
			return runScan(ctx, w, s, *scanJSON)
		}),
	}

	selectFlagSet := flag.NewFlagSet("select", flag.ContinueOnError)
	var selectIgnore stringList
	selectFlagSet.Var(&selectIgnore, "ignore", "skip a saved network given as ssid:security, repeatable")
	selectJSON := selectFlagSet.Bool("json", false, "output in JSON format")
	selectInspect := selectFlagSet.Bool("inspect", false, "also print the scored candidates")
	selectCmd := &ffcli.Command{
		Name:       "select",
		ShortUsage: "wifiselect select [-ignore ssid:security ...] [-json] [-inspect]",
		ShortHelp:  "Pick the best saved network in range",
		FlagSet:    selectFlagSet,
		Exec: withSession(o, false, func(ctx context.Context, s *session) error {
			return runSelect(ctx, w, s, selectIgnore, *selectJSON, *selectInspect)
		}),
	}

	candidateFlagSet := flag.NewFlagSet("candidate", flag.ContinueOnError)
	candidateSecurity := candidateFlagSet.String("security", "wpa2", "security type (none, wep, wpa, wpa2, wpa3)")
	candidateWPA3 := candidateFlagSet.Bool("wpa3", false, "assume a WPA3 capable client")
	candidateJSON := candidateFlagSet.Bool("json", false, "output in JSON format")
	candidateCmd := &ffcli.Command{
		Name:       "candidate",
		ShortUsage: "wifiselect candidate [-security wpa2] [-wpa3] <ssid>",
		ShortHelp:  "Find a connection candidate for one saved network with a directed scan",
		FlagSet:    candidateFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("candidate requires an ssid")
			}
			return withSession(o, false, func(ctx context.Context, s *session) error {
				return runCandidate(ctx, w, s, args[0], *candidateSecurity, *candidateWPA3, *candidateJSON)
			})(ctx, args)
		},
	}

	ifacesFlagSet := flag.NewFlagSet("ifaces", flag.ContinueOnError)
	ifacesJSON := ifacesFlagSet.Bool("json", false, "output in JSON format")
	ifacesCmd := &ffcli.Command{
		Name:       "ifaces",
		ShortUsage: "wifiselect ifaces [-json]",
		ShortHelp:  "List wireless interfaces",
		FlagSet:    ifacesFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			return runIfaces(w, *ifacesJSON)
		},
	}

	watchFlagSet := flag.NewFlagSet("watch", flag.ContinueOnError)
	watchInterval := watchFlagSet.Duration("interval", tui.ScanDefault, "time between selection rounds")
	watchCmd := &ffcli.Command{
		Name:       "watch",
		ShortUsage: "wifiselect watch [-interval 2s]",
		ShortHelp:  "Show scan results and the best candidate as they change",
		FlagSet:    watchFlagSet,
		Exec: withSession(o, true, func(ctx context.Context, s *session) error {
			return runWatch(ctx, s, *watchInterval)
		}),
	}

	root := &ffcli.Command{
		ShortUsage: "wifiselect [flags] <subcommand> [args...]",
		FlagSet:    rootFlagSet,
		Options:    []ff.Option{ff.WithEnvVarPrefix("WIFISELECT")},
		Subcommands: []*ffcli.Command{
			scanCmd, selectCmd, candidateCmd, newSavedCommand(o, w), ifacesCmd, watchCmd,
		},
		Exec: func(ctx context.Context, args []string) error {
			if *version {
				fmt.Fprintln(w, Version)
				return nil
			}
			return flag.ErrHelp
		},
	}
	return root
}

func newSavedCommand(o *options, w io.Writer) *ffcli.Command {
	listFlagSet := flag.NewFlagSet("list", flag.ContinueOnError)
	listJSON := listFlagSet.Bool("json", false, "output in JSON format")
	listCmd := &ffcli.Command{
		Name:       "list",
		ShortUsage: "wifiselect saved list [-json]",
		ShortHelp:  "List saved networks",
		FlagSet:    listFlagSet,
		Exec: withSession(o, false, func(ctx context.Context, s *session) error {
			return runSavedList(ctx, w, s, *listJSON)
		}),
	}

	addFlagSet := flag.NewFlagSet("add", flag.ContinueOnError)
	addSecurity := addFlagSet.String("security", "wpa2", "security type (none, wep, wpa, wpa2, wpa3)")
	addPassphrase := addFlagSet.String("passphrase", "", "passphrase for the network")
	addPSK := addFlagSet.Bool("psk", false, "passphrase is a raw pre-shared key")
	addCmd := &ffcli.Command{
		Name:       "add",
		ShortUsage: "wifiselect saved add [-security wpa2] [-passphrase secret] [-psk] <ssid>",
		ShortHelp:  "Save a network",
		FlagSet:    addFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("add requires an ssid")
			}
			return withSession(o, false, func(ctx context.Context, s *session) error {
				return runSavedAdd(ctx, w, s, args[0], *addSecurity, *addPassphrase, *addPSK)
			})(ctx, args)
		},
	}

	forgetCmd := &ffcli.Command{
		Name:       "forget",
		ShortUsage: "wifiselect saved forget <ssid:security>",
		ShortHelp:  "Forget a saved network",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("forget requires a network")
			}
			return withSession(o, false, func(ctx context.Context, s *session) error {
				return runSavedForget(ctx, w, s, args[0])
			})(ctx, args)
		},
	}

	failFlagSet := flag.NewFlagSet("fail", flag.ContinueOnError)
	failBSSID := failFlagSet.String("bssid", "", "access point the attempt was made on")
	failRejected := failFlagSet.Bool("rejected", false, "the credential was rejected")
	failCmd := &ffcli.Command{
		Name:       "fail",
		ShortUsage: "wifiselect saved fail [-bssid 00:11:22:33:44:55] [-rejected] <ssid:security>",
		ShortHelp:  "Record a failed connection attempt",
		FlagSet:    failFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("fail requires a network")
			}
			outcome := wifi.ConnectFailed
			if *failRejected {
				outcome = wifi.ConnectCredentialRejected
			}
			return withSession(o, false, func(ctx context.Context, s *session) error {
				return runSavedResult(ctx, w, s, args[0], *failBSSID, outcome)
			})(ctx, args)
		},
	}

	connectedFlagSet := flag.NewFlagSet("connected", flag.ContinueOnError)
	connectedBSSID := connectedFlagSet.String("bssid", "", "access point the connection was made on")
	connectedCmd := &ffcli.Command{
		Name:       "connected",
		ShortUsage: "wifiselect saved connected [-bssid 00:11:22:33:44:55] <ssid:security>",
		ShortHelp:  "Record a successful connection",
		FlagSet:    connectedFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("connected requires a network")
			}
			return withSession(o, false, func(ctx context.Context, s *session) error {
				return runSavedResult(ctx, w, s, args[0], *connectedBSSID, wifi.ConnectSuccess)
			})(ctx, args)
		},
	}

	return &ffcli.Command{
		Name:        "saved",
		ShortUsage:  "wifiselect saved <subcommand>",
		ShortHelp:   "Manage saved networks",
		Subcommands: []*ffcli.Command{listCmd, addCmd, forgetCmd, failCmd, connectedCmd},
		Exec: func(ctx context.Context, args []string) error {
			return flag.ErrHelp
		},
	}
}

// main is the entry point of the application
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand(&options{}, os.Stdout)
	if err := root.ParseAndRun(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
