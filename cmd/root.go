package cmd

import (
	"fmt"
	"os"

	"github.com/fan-control/fan-control/cmd/config"
	"github.com/fan-control/fan-control/cmd/global"
	"github.com/fan-control/fan-control/cmd/sensor"
	"github.com/fan-control/fan-control/cmd/speed"
	"github.com/fan-control/fan-control/internal"
	"github.com/fan-control/fan-control/internal/configuration"
	"github.com/fan-control/fan-control/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fan-control",
	Short: "A daemon to control a fan based on a temperature sensor.",
	Long: `fan-control reads a temperature sensor periodically and switches
a pwm fan between a small number of speed levels, holding each level
for a while before lowering it again.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupUi()
	},
	// this is the default command to run when no subcommand is specified
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("speed") {
			return applySpeed(global.Speed)
		}

		foreground := !global.Daemon || internal.IsDaemonized()
		if foreground {
			printHeader()
		}

		config, err := global.LoadConfiguration()
		if err != nil {
			ui.ErrorAndNotify("Config Validation Error", "%v", err)
			os.Exit(1)
		}

		pidFile := ""
		if cmd.Flags().Changed("pid-file") {
			pidFile = global.PidFile
		} else if global.Daemon {
			pidFile = config.PidFile
		}

		if !foreground {
			pid, err := internal.StartDaemon(config, pidFile)
			if err != nil {
				return err
			}
			ui.Success("Started fan-control in the background (pid: %d)", pid)
			return nil
		}

		return internal.RunDaemon(config, pidFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&global.CfgFile, "config", "c", "", "config file (default is fan-control.yaml in ., $HOME or /etc/fan-control/)")
	rootCmd.PersistentFlags().BoolVarP(&global.NoColor, "no-color", "", false, "Disable all terminal output coloration")
	rootCmd.PersistentFlags().BoolVarP(&global.NoStyle, "no-style", "", false, "Disable all terminal output styling")
	rootCmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "More verbose output")

	rootCmd.Flags().BoolVarP(&global.Daemon, "daemon", "d", false, "Run in the background")
	rootCmd.Flags().StringVarP(&global.PidFile, "pid-file", "p", configuration.DefaultPidFile, "Pid file used to prevent multiple instances")
	rootCmd.Flags().IntVarP(&global.Speed, "speed", "s", -1, "Set the fan to a fixed speed level and exit")
	rootCmd.MarkFlagsMutuallyExclusive("speed", "daemon")

	rootCmd.AddCommand(config.Command)
	rootCmd.AddCommand(sensor.Command)
	rootCmd.AddCommand(speed.Command)
}

func applySpeed(level int) error {
	objects, err := global.LoadObjects()
	if err != nil {
		return err
	}
	if err = internal.ApplySpeed(objects, level); err != nil {
		return err
	}
	ui.Success("Set %s to level %d", objects.Fan.GetId(), level)
	return nil
}

func setupUi() {
	ui.SetDebugEnabled(global.Verbose)

	if global.NoColor {
		pterm.DisableColor()
	}
	if global.NoStyle {
		pterm.DisableStyling()
	}
}

// Print a large text with the LetterStyle from the standard theme.
func printHeader() {
	err := pterm.DefaultBigText.WithLetters(
		pterm.NewLettersFromStringWithStyle("fan", pterm.NewStyle(pterm.FgLightBlue)),
		pterm.NewLettersFromStringWithStyle("-", pterm.NewStyle(pterm.FgWhite)),
		pterm.NewLettersFromStringWithStyle("control", pterm.NewStyle(pterm.FgLightBlue)),
	).Render()
	if err != nil {
		fmt.Println("fan-control")
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.OnInitialize(func() {
		configuration.InitConfig(global.CfgFile)
	})

	if err := rootCmd.Execute(); err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}
}
