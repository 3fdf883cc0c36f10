package cmds

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"os/exec"
	"runtime/debug"
	"strings"

	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/korin/dotwm/internal/config"
	"github.com/korin/dotwm/internal/daemon"
	"github.com/korin/dotwm/internal/sway"
)

// ///// ///// /////
// ///// COBRAS
// ///// ///// /////

func configFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", config.DefaultPath(),
		"Path to the YAML config, the built-in one is used when missing")
}

func GetRootCmd(logger *log.Logger) *cobra.Command {

	cmdDaemon := &cobra.Command{
		Use:   "daemon",
		Short: "Apply the config to sway and run the window hooks",
		Run:   cmdDaemon(logger),
	}
	configFlag(cmdDaemon)
	cmdDaemon.Flags().Bool("autoconfig", true,
		"Float the prompt window")

	cmdCheck := &cobra.Command{
		Use:   "check",
		Short: "Validate the config and expand the groups",
		RunE:  CmdCheck,
	}
	configFlag(cmdCheck)

	cmdRender := &cobra.Command{
		Use:   "render",
		Short: "Print the sway commands for the config",
		Long: "Print the sway commands for the config, one per line. The output " +
			"can be piped to swaymsg or included in the sway config.",
		RunE: CmdRender,
	}
	configFlag(cmdRender)
	cmdRender.Flags().StringSlice("outputs", nil,
		"Output names used by to_screen, in order")

	cmdKeys := &cobra.Command{
		Use:   "keys",
		Short: "List the keybindings",
		Long: "List the keybindings, including the generated group ones. Asks the " +
			"daemon with --remote, otherwise reads the config.",
		RunE: CmdKeys,
	}
	configFlag(cmdKeys)
	cmdKeys.Flags().Bool("remote", false, "List the bindings of the running daemon")

	cmdGroups := &cobra.Command{
		Use:   "groups",
		Short: "Print the expanded groups as YAML",
		RunE:  CmdGroups,
	}
	configFlag(cmdGroups)

	cmdReload := &cobra.Command{
		Use:   "reload",
		Short: "Make the daemon re-read the config",
		RunE:  CmdReload,
	}

	cmdPrompt := &cobra.Command{
		Use:   "prompt",
		Short: "Show the command prompt using foot",
		Long: "Show the +x files from PATH using foot, with all the dirs being " +
			"watched for changes. This is what spawn_cmd runs.",
		Run: CmdPrompt,
	}

	cmdFzfPrompt := &cobra.Command{
		Use:   "prompt",
		Short: "Run fzf with a list of executable files from PATH",
		Run:   CmdFzfPrompt,
	}

	cmdFzf := &cobra.Command{
		Use:   "fzf",
		Short: "Pure FZF version of the prompt",
		Long: "Pure FZF version of the prompt, which allows it to be rendered " +
			"directly in the terminal.",
	}
	cmdFzf.AddCommand(cmdFzfPrompt)

	cmdWinToGroup := &cobra.Command{
		Use:   "win-to-group",
		Short: "Move the focused window to a group",
		RunE:  CmdWinToGroup,
		Args:  cobra.ExactArgs(1),
	}

	cmdUserCmd := &cobra.Command{
		Use:     "usr-cmd",
		Short:   "Run a user command with a specific name and optional args",
		Example: "dotwm usr-cmd arrange -- -dry",
		RunE:    CmdUsrCmd,
		Args:    cobra.MinimumNArgs(1),
	}

	var rootCmd = &cobra.Command{
		Use: "dotwm",
		Run: CmdRoot,
	}
	rootCmd.AddCommand(cmdDaemon, cmdCheck, cmdRender, cmdKeys, cmdGroups,
		cmdReload, cmdPrompt, cmdFzf, cmdWinToGroup, cmdUserCmd)
	rootCmd.Flags().Bool("version", false,
		"Print version and exit")

	return rootCmd
}

func cmdDaemon(logger *log.Logger) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("config")
		autoconfig, _ := cmd.Flags().GetBool("autoconfig")
		d := &daemon.Daemon{
			ConfigPath: path,
			Autoconfig: autoconfig,
			Logger:     logger,
		}
		d.Logger.Printf("Config file: %s", path)
		d.Start()
	}
}

// ///// ///// /////
// ///// CONFIG CMDS
// ///// ///// /////

func CmdCheck(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	_, exp, err := daemon.LoadConfig(path)
	if err != nil {
		return err
	}

	cmd.Printf("ok: %d groups, %d keys\n", len(exp.Groups), len(exp.Keys))
	return nil
}

func CmdRender(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	outputs, _ := cmd.Flags().GetStringSlice("outputs")
	cfg, exp, err := daemon.LoadConfig(path)
	if err != nil {
		return err
	}

	for _, line := range sway.Render(cfg, exp, outputs) {
		cmd.Println(line)
	}
	return nil
}

func CmdKeys(cmd *cobra.Command, _ []string) error {
	remote, _ := cmd.Flags().GetBool("remote")
	if remote {
		list, err := daemon.RemoteCall("Daemon.RemoteKeyList", daemon.RPCArgs{})
		if err != nil {
			return err
		}
		cmd.Print(list)
		return nil
	}

	path, _ := cmd.Flags().GetString("config")
	_, exp, err := daemon.LoadConfig(path)
	if err != nil {
		return err
	}

	cmd.Print(daemon.FormatKeys(exp.Keys))
	return nil
}

func CmdGroups(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	_, exp, err := daemon.LoadConfig(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(exp.Groups); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	cmd.Print(buf.String())
	return nil
}

// ///// ///// /////
// ///// DAEMON CMDS
// ///// ///// /////

func CmdReload(cmd *cobra.Command, _ []string) error {
	result, err := daemon.RemoteCall("Daemon.RemoteReload", daemon.RPCArgs{})
	if err != nil {
		return err
	}

	cmd.Printf("Reloaded: %s\n", result)
	return nil
}

func CmdWinToGroup(_ *cobra.Command, args []string) error {
	_, err := daemon.RemoteCall("Daemon.RemoteWinToGroup", daemon.RPCArgs{
		Group: args[0],
	})

	return err
}

func CmdUsrCmd(cmd *cobra.Command, args []string) error {
	usrArgs := ""
	if len(args) > 1 {
		usrArgs = strings.Join(args[1:], " ")
	}

	result, err := daemon.RemoteCall("Daemon.RemoteUsrCmd", daemon.RPCArgs{
		UsrCmd:  args[0],
		UsrArgs: usrArgs,
	})
	if err != nil {
		return err
	}

	// TODO allow for fzf
	cmd.Print(result)
	return nil
}

// ///// ///// /////
// ///// TERM WRAPPER COMMANDS
// ///// ///// /////

func CmdPrompt(_ *cobra.Command, _ []string) {
	if !shouldOpen() {
		log.Fatal("fzf error: already open")
	}
	_, err := run(shellPrompt)
	if err != nil {
		log.Fatalf("foot error: %s", err)
	}
}

// ///// ///// /////
// ///// OTHER CMDS
// ///// ///// /////

func CmdRoot(cmd *cobra.Command, _ []string) {
	version, _ := cmd.Flags().GetBool("version")

	if version {
		build, ok := debug.ReadBuildInfo()
		if !ok {
			panic("No build info available")
		}
		fmt.Println(build.Main.Version)
		os.Exit(0)
	}

	fmt.Println(dedent.Dedent(strings.Trim(`
		dotwm: tiling desktop config for sway

		Applies keybindings, groups, floating rules and the layout theme to sway
		from a single YAML file, and floats dialogs as they appear.

		Usage:

		$ dotwm check
		$ dotwm daemon --config ~/.config/dotwm/config.yml
		$ dotwm keys --remote
		$ dotwm help`, " \n")))
}

// ///// ///// /////
// ///// HELPERS
// ///// ///// /////

func shouldOpen() bool {
	pid := os.Getpid()
	shouldOpen, err := daemon.RemoteCall("Daemon.RemoteShouldOpen", daemon.RPCArgs{PID: pid})
	if err != nil {
		log.Printf("rpc error: %s", err)
		return false
	}

	return shouldOpen == "true"
}

func run(cmd string) (string, error) {
	shell := os.Getenv("SHELL")
	if len(shell) == 0 {
		shell = "sh"
	}
	out, err := exec.Command(shell, "-c", cmd).Output()

	return string(out), err
}
