package cmds

import (
	"bytes"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/korin/dotwm/internal/daemon"
)

const (
	shellFzfPrompt = `
  fzf \
    --prompt 'Run: ' \
    --layout=reverse --info=hidden \
    --bind=space:accept,tab:offset-down,btab:offset-up
`
	// junegunn/seoul256.vim (light)
	shellFzfLight = ` \
    --color=bg+:#D9D9D9,bg:#E1E1E1,border:#C8C8C8,spinner:#719899,hl:#719872,fg:#616161,header:#719872,info:#727100,pointer:#E12672,marker:#E17899,fg+:#616161,preview-bg:#D9D9D9,prompt:#0099BD,hl+:#719899
`
	shellPrompt = `
    foot --title "dotwm" dotwm fzf prompt
`
)

// ///// ///// /////
// ///// FZF COMMANDS
// ///// ///// /////

func CmdFzfPrompt(_ *cobra.Command, _ []string) {
	// req the daemon
	list, err := daemon.RemoteCall("Daemon.RemoteGetPathFiles", daemon.RPCArgs{})
	if err != nil {
		log.Fatalf("rpc error: %s", err)
	}

	// run fzf
	result, err := runFZF(shellFzfPrompt, &list)
	if err != nil {
		log.Fatalf("fzf error: %s", err)
	}

	// run the picked exe
	exe := pickedLine(result)
	log.Printf("path: %s", exe)
	_, err = daemon.RemoteCall("Daemon.RemoteExec", daemon.RPCArgs{
		ExePath: exe,
	})
	if err != nil {
		log.Fatalf("error: cant run %s", exe)
	}
}

// ///// ///// /////
// ///// HELPERS
// ///// ///// /////

// pickedLine returns the first line of fzf's output, trimmed.
func pickedLine(result string) string {
	line, _, _ := strings.Cut(result, "\n")
	return strings.TrimSpace(line)
}

func runFZF(cmd string, input *string) (string, error) {
	shell := os.Getenv("SHELL")
	if len(shell) == 0 {
		shell = "sh"
	}
	if daemon.IsLightMode() {
		cmd = strings.TrimRight(cmd, " \n") + shellFzfLight
	}

	fzf := exec.Command(shell, "-c", cmd)
	fzf.Stdin = bytes.NewBuffer([]byte(*input))

	// bind the UI
	fzf.Stderr = os.Stderr
	// read the result
	result, err := fzf.Output()
	if err != nil {
		return "", err
	}

	return string(result), nil
}
