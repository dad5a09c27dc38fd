package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/zpdzap/padre/internal/config"
	"github.com/zpdzap/padre/internal/js9"
	"github.com/zpdzap/padre/internal/logging"
	"github.com/zpdzap/padre/internal/session"
	"github.com/zpdzap/padre/internal/tui"
)

var errArgCount = errors.New("incorrect number of arguments")

// flags holds the launcher's command-line settings.
type flags struct {
	remotePath string
	browser    string
	noBrowser  bool
	auto       string
	tui        bool
	verbose    bool
	configDir  string
}

func (f *flags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.remotePath, "remote-path", "p", "", "directory of run-radiopadre.sh on the remote host (default ~/radiopadre, then $PATH)")
	fs.StringVarP(&f.browser, "browser", "b", "", "browser command, may include arguments (default $"+config.BrowserEnv+" or "+config.DefaultBrowser+")")
	fs.BoolVarP(&f.noBrowser, "no-browser", "n", false, "print notebook URLs instead of opening a browser")
	fs.StringVarP(&f.auto, "auto", "a", config.DefaultAuto, "glob of notebooks to open automatically, or \""+config.AutoNone+"\"")
	fs.BoolVar(&f.tui, "tui", false, "show an interactive dashboard instead of scrolling output")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "write debug logs to stderr")
}

func (f *flags) registerPersistent(fs *pflag.FlagSet) {
	fs.StringVar(&f.configDir, "config-dir", "", "configuration directory (default $XDG_CONFIG_HOME/"+config.Dir+")")
}

// apply layers explicitly given flags over cfg.
func (f *flags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("remote-path") {
		cfg.RemotePath = f.remotePath
	}
	if fs.Changed("browser") {
		cfg.Browser = f.browser
	}
	if fs.Changed("no-browser") {
		cfg.NoBrowser = f.noBrowser
	}
	if fs.Changed("auto") || cfg.Auto == "" {
		cfg.Auto = f.auto
	}
	if f.verbose {
		cfg.Log.Level = "debug"
	}
}

func (f *flags) dir() (string, error) {
	if f.configDir != "" {
		return f.configDir, nil
	}
	return config.DefaultDir()
}

func (f *flags) loadConfig(fs *pflag.FlagSet) (*config.Config, error) {
	dir, err := f.dir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadOrDefault(dir)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	f.apply(fs, cfg)
	return cfg, nil
}

func main() {
	var f flags
	root := &cobra.Command{
		Use:          "padre [flags] [user@]host[:directory[/notebook.ipynb]]",
		Short:        "Run radiopadre on a remote host and open its notebooks locally",
		Args:         exactlyOneTarget,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &f, args[0])
		},
	}
	f.register(root.Flags())
	f.registerPersistent(root.PersistentFlags())

	root.AddCommand(initCmd(&f), js9Cmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func exactlyOneTarget(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errArgCount
	}
	return nil
}

func run(cmd *cobra.Command, f *flags, spec string) error {
	cfg, err := f.loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	logging.Configure(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File, Verbose: f.verbose})

	target, err := session.ParseTarget(spec, cfg.AutoPattern())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := session.Options{
		Target:       target,
		RemotePath:   cfg.RemotePath,
		Browser:      cfg.Browser,
		NoBrowser:    cfg.NoBrowser,
		PortBase:     cfg.ResolvedPortBase(os.Getuid()),
		MaxPortTries: cfg.MaxPortTries,
	}
	newLauncher := func(r session.Reporter) *session.Launcher {
		return session.NewLauncher(opts, session.ExecRunner{}, r, logging.NewLogger("session"))
	}

	if f.tui {
		return tui.Run(ctx, target.Host, func(r session.Reporter) tui.Session {
			return newLauncher(r)
		})
	}
	return newLauncher(tui.NewConsole(os.Stdout)).Run(ctx)
}

func initCmd(f *flags) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default padre configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := f.dir()
			if err != nil {
				return err
			}

			if config.Exists(dir) && !force {
				fmt.Printf("padre already configured: %s/%s (use --force to overwrite)\n", dir, config.ConfigFile)
				return nil
			}

			cfg := config.Default()
			cfg.ApplyEnv()
			if err := config.Save(dir, cfg); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}

			fmt.Printf("Wrote %s/%s\n", dir, config.ConfigFile)
			fmt.Printf("  Browser: %s\n", cfg.Browser)
			fmt.Printf("  Auto-open: %s\n", cfg.Auto)
			fmt.Println("\nRun `padre [user@]host[:directory]` to start a session.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration")
	return cmd
}

func js9Cmd() *cobra.Command {
	var urlBase, root string
	cmd := &cobra.Command{
		Use:   "js9-init",
		Short: "Print the HTML that loads the JS9 FITS viewer into a notebook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if root == "" {
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				root = wd
			}
			cfg := js9.Init(js9.EnvFromOS(urlBase, root))
			if cfg.Warning != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), cfg.Warning)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(cfg.InitHTML))
			return nil
		},
	}
	cmd.Flags().StringVar(&urlBase, "url-base", "", "URL root the notebook server serves files under")
	cmd.Flags().StringVar(&root, "root", "", "absolute notebook root directory (default current directory)")
	return cmd
}
