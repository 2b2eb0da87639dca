package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Chriskfigures777/Niceone/internal/profile"
	"github.com/Chriskfigures777/Niceone/plugin/ai/agent/tools"
	"github.com/Chriskfigures777/Niceone/plugin/ics"
	"github.com/Chriskfigures777/Niceone/server"
	"github.com/Chriskfigures777/Niceone/server/service/booking"
	"github.com/Chriskfigures777/Niceone/store"
	"github.com/Chriskfigures777/Niceone/store/db"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	rootCmd = &cobra.Command{
		Use:   "niceone",
		Short: "A booking agent backend for Cal.com with long-term conversation memory.",
		RunE:  runServe,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the tool and session API",
		RunE:  runServe,
	}

	toolCmd = &cobra.Command{
		Use:   "tool <name>",
		Short: "Run one agent tool and print what the caller would hear",
		Args:  cobra.ExactArgs(1),
		RunE:  runTool,
	}

	exportCmd = &cobra.Command{
		Use:   "export-ics",
		Short: "Write a caller's bookings as an iCalendar file to stdout",
		RunE:  runExport,
	}
)

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("port", 8081)

	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver")
	rootCmd.PersistentFlags().String("dsn", "", "database source name(aka. DSN)")

	for _, key := range []string{"mode", "addr", "port", "data", "driver", "dsn"} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key)); err != nil {
			panic(err)
		}
	}

	toolCmd.Flags().String("input", "{}", "tool input as JSON")
	toolCmd.Flags().String("email", "", "caller email for the session")
	exportCmd.Flags().String("email", "", "caller email")
	exportCmd.Flags().String("status", "upcoming", "bookings to export: upcoming, past or cancelled")

	viper.SetEnvPrefix("niceone")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(serveCmd, toolCmd, exportCmd)
}

func loadProfile() (*profile.Profile, error) {
	p := &profile.Profile{
		Mode:    viper.GetString("mode"),
		Addr:    viper.GetString("addr"),
		Port:    viper.GetInt("port"),
		Data:    viper.GetString("data"),
		Driver:  viper.GetString("driver"),
		DSN:     viper.GetString("dsn"),
		Version: version,
	}
	p.FromEnv()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	setupLogger(p)
	return p, nil
}

func setupLogger(p *profile.Profile) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if p.IsDev() {
		opts.Level = slog.LevelDebug
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, opts)))
		return
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, opts)))
}

// openStore opens the audit store and applies migrations.
func openStore(ctx context.Context, p *profile.Profile) (*store.Store, error) {
	dbDriver, err := db.NewDBDriver(p)
	if err != nil {
		return nil, err
	}
	st := store.New(dbDriver, p)
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// setup loads configuration and wires the agent. The returned func releases
// everything.
func setup(ctx context.Context) (*profile.Profile, *store.Store, *server.Components, func(), error) {
	p, err := loadProfile()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	st, err := openStore(ctx, p)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	components, err := server.NewComponents(ctx, p, st)
	if err != nil {
		st.Close()
		return nil, nil, nil, nil, err
	}
	cleanup := func() {
		if err := components.Close(); err != nil {
			slog.Warn("failed to close components", "error", err)
		}
		if err := st.Close(); err != nil {
			slog.Warn("failed to close store", "error", err)
		}
	}
	return p, st, components, cleanup, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, st, components, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	s, err := server.NewServer(p, st, components)
	if err != nil {
		return err
	}
	printGreetings(p)
	return s.Run(ctx)
}

func runTool(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	_, _, components, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	tool, ok := components.Tools.Get(args[0])
	if !ok {
		names := make([]string, 0)
		for _, t := range components.Tools.List() {
			names = append(names, t.Name())
		}
		return fmt.Errorf("unknown tool %q, available: %s", args[0], strings.Join(names, ", "))
	}

	email, _ := cmd.Flags().GetString("email")
	input, _ := cmd.Flags().GetString("input")

	sess := components.Sessions.Create(email)
	defer components.Sessions.End(context.WithoutCancel(ctx), sess.ID())

	result := components.Executor.Execute(tools.WithSession(ctx, sess), tool, input)
	fmt.Fprintln(cmd.OutOrStdout(), result.Output)
	if !result.Success {
		return fmt.Errorf("%s failed: %s", tool.Name(), result.Code)
	}
	return nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	_, _, components, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	email, _ := cmd.Flags().GetString("email")
	rawStatus, _ := cmd.Flags().GetString("status")
	status, err := booking.ParseListStatus(rawStatus)
	if err != nil {
		return err
	}

	outcome := components.Booking.ListBookings(ctx, nil, booking.ListRequest{Email: email, Status: status})
	if !outcome.OK() {
		return fmt.Errorf("%s", outcome.Render())
	}
	return ics.Write(cmd.OutOrStdout(), outcome.Appointments, ics.Options{Name: "Bookings for " + outcome.Email})
}

func printGreetings(p *profile.Profile) {
	fmt.Printf("niceone %s started successfully!\n", p.Version)
	fmt.Printf("Mode: %s, data: %s, driver: %s\n", p.Mode, p.Data, p.Driver)
	if p.IsMemoryEnabled() {
		fmt.Println("Long-term memory: enabled")
	}
	if p.IsRedisEnabled() {
		fmt.Println("Mutation guard: redis")
	}
	fmt.Printf("Listening on %s:%d\n", p.Addr, p.Port)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
