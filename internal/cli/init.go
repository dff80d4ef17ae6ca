package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/gpuwatch/internal/config"
	"github.com/rileyhilliard/gpuwatch/internal/errors"
	"github.com/rileyhilliard/gpuwatch/internal/ui"
)

var (
	initForce  bool
	initGlobal bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a gpuwatch config file",
	Long: `Create .gpuwatch.yaml in the current directory (or the global config with
--global). When stdin is a terminal you are prompted for the endpoint and
poll interval; otherwise --endpoint and --interval are used as given.

Examples:
  gpuwatch init
  gpuwatch init --endpoint http://gpu-box:9555/gpu/metric --force
  gpuwatch init --global`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(".", config.ConfigFileName)
		if initGlobal {
			path = config.GlobalConfigPath()
		}

		return Init(cmd.OutOrStdout(), InitOptions{
			Path:           path,
			Endpoint:       endpointFlag,
			Interval:       intervalFlag,
			Overwrite:      initForce,
			NonInteractive: !isTerminal(os.Stdin) || cmd.Flags().Changed("endpoint"),
		})
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initGlobal, "global", false, "write "+filepath.Join("~", config.GlobalConfigDir, config.GlobalConfigFile))
	rootCmd.AddCommand(initCmd)
}

// InitOptions holds options for the init command.
type InitOptions struct {
	Path           string        // Where to write the config
	Endpoint       string        // Pre-specified endpoint; default used when empty
	Interval       time.Duration // Pre-specified poll interval; default used when zero
	Overwrite      bool          // Replace an existing file without asking
	NonInteractive bool          // Skip prompts
}

// Init writes a new config file.
func Init(w io.Writer, opts InitOptions) error {
	cfg := config.DefaultConfig()
	if opts.Endpoint != "" {
		cfg.Endpoint = opts.Endpoint
	}
	if opts.Interval > 0 {
		cfg.PollInterval = opts.Interval
	}

	overwrite := opts.Overwrite
	if _, err := os.Stat(opts.Path); err == nil && !overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", opts.Path),
				"Use --force to overwrite")
		}

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", opts.Path)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
	}

	if !opts.NonInteractive {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	if err := config.Write(opts.Path, cfg, overwrite); err != nil {
		return err
	}

	fmt.Fprintf(w, "%s Created %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), opts.Path)
	fmt.Fprintf(w, "  %s %s\n", ui.MutedStyle().Render("endpoint:"), cfg.Endpoint)
	fmt.Fprintf(w, "  %s %s\n", ui.MutedStyle().Render("interval:"), cfg.PollInterval)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Next steps:")
	fmt.Fprintln(w, "  gpuwatch probe   - Check the exporter responds")
	fmt.Fprintln(w, "  gpuwatch         - Start the dashboard")

	return nil
}

// promptConfig asks for the endpoint and poll interval, starting from cfg's values.
func promptConfig(cfg *config.Config) error {
	endpoint := cfg.Endpoint
	interval := cfg.PollInterval.String()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Metrics endpoint").
				Description("URL serving gpu_* metrics in the text exposition format").
				Placeholder(config.DefaultEndpoint).
				Value(&endpoint).
				Validate(func(s string) error {
					if err := config.ValidateEndpoint(strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("enter a full http:// or https:// URL")
					}
					return nil
				}),
			huh.NewInput().
				Title("Poll interval").
				Description("Pause between requests, e.g. 1s or 500ms").
				Placeholder(config.DefaultPollInterval.String()).
				Value(&interval).
				Validate(func(s string) error {
					d, err := time.ParseDuration(strings.TrimSpace(s))
					if err != nil || d <= 0 {
						return fmt.Errorf("enter a positive duration like 1s")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Pass --endpoint to skip the prompts")
	}

	cfg.Endpoint = strings.TrimSpace(endpoint)
	d, err := time.ParseDuration(strings.TrimSpace(interval))
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Invalid poll interval", "")
	}
	cfg.PollInterval = d
	return nil
}
