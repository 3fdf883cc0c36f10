package daemon

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/rpc"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/korin/dotwm/internal/config"
	usrCmds "github.com/korin/dotwm/pkg/usr-cmds"
)

// RPC

var client *rpc.Client

type RPCArgs struct {
	PID     int
	Group   string
	ExePath string
	UsrCmd  string
	UsrArgs string
}

// RemoteKeyList is an RPC method
func (d *Daemon) RemoteKeyList(_ RPCArgs, reply *string) error {
	*reply = FormatKeys(d.Keys())
	return nil
}

// RemoteReload is an RPC method
func (d *Daemon) RemoteReload(_ RPCArgs, reply *string) error {
	err := d.Reload()
	if err != nil {
		return err
	}
	*reply = fmt.Sprintf("%d groups, %d keys", len(d.Groups()), len(d.Keys()))

	return nil
}

// RemoteShouldOpen is an RPC method
func (d *Daemon) RemoteShouldOpen(args RPCArgs, reply *string) error {
	d.mx.Lock()
	defer d.mx.Unlock()

	if d.openedByPID == 0 {
		*reply = "true"
		d.openedByPID = args.PID
		d.openedAt = time.Now()
		return nil
	}
	// check if the holding process is alive
	proc, _ := os.FindProcess(d.openedByPID)
	timeoutOut := time.Since(d.openedAt) > pidTimeout
	if dead := proc.Signal(syscall.Signal(0)); dead != nil || timeoutOut {
		d.openedByPID = args.PID
		d.openedAt = time.Now()
		*reply = "true"
	} else {
		*reply = "false"
	}
	return nil
}

// RemoteGetPathFiles is an RPC method
func (d *Daemon) RemoteGetPathFiles(_ RPCArgs, ret *string) error {
	log.Printf("RemoteGetPathFiles...")
	ctx, cancel := context.WithTimeout(d.ctx, 5*time.Second)
	defer cancel()

	exes, err := d.watcher.Executables(ctx)
	if err != nil {
		return err
	}
	*ret = strings.Join(exes, "\n")

	return nil
}

// RemoteExec is an RPC method
func (d *Daemon) RemoteExec(args RPCArgs, _ *string) error {
	log.Printf("RemoteExec...")
	path := strings.TrimSpace(args.ExePath)
	if path == "" {
		return errors.New("nothing to run")
	}

	return d.SwayMsg("exec %s", path)
}

// RemoteWinToGroup is an RPC method
func (d *Daemon) RemoteWinToGroup(args RPCArgs, _ *string) error {
	log.Printf("RemoteWinToGroup %s...", args.Group)

	cw := d.FocusedWindow()
	if cw.ID == 0 {
		return errors.New("no focused window")
	}

	return d.MoveWinToGroup(cw.ID, args.Group)
}

// RemoteUsrCmd is an RPC method
func (d *Daemon) RemoteUsrCmd(rpcArgs RPCArgs, rpcRet *string) error {
	log.Printf("RemoteUsrCmd... %s", rpcArgs.UsrCmd)

	args := parseFlags(strings.Trim(rpcArgs.UsrArgs, " \n"))
	cmdRet, err := usrCmds.Run(rpcArgs.UsrCmd, d, args)
	if err != nil {
		log.Printf("error: %s", err)
		return err
	}

	log.Printf("cmdRet: %s", cmdRet)
	*rpcRet = cmdRet
	return nil
}

func RemoteCall(method string, args RPCArgs) (string, error) {
	// TODO timeout
	log.Printf("rpcCall %s...", method)

	var err error
	if client == nil {
		client, err = rpc.Dial("tcp", rpcURL())
		if err != nil {
			return "", fmt.Errorf("rpc connection error, is the daemon running? %w", err)
		}
	}
	var reply string
	err = client.Call(method, args, &reply)
	if err != nil {
		return "", err
	}

	return reply, nil
}

// FormatKeys renders the bindings as aligned lines of "hotkey | action".
func FormatKeys(keys []config.Key) string {
	ret := ""
	for _, k := range keys {
		ret += fmt.Sprintf("%-*s | %s\n",
			lenHotkey, maxLen(k.Hotkey(), lenHotkey),
			maxLen(k.Action.String(), lenAction),
		)
	}

	return ret
}

// SERVER

func rpcServer(out *log.Logger, server any) {
	err := rpc.Register(server)
	if err != nil {
		out.Fatal("register error:", err)
	}

	l, err := net.Listen("tcp", rpcURL())
	if err != nil {
		out.Fatal("listen error:", err)
	}
	rpc.Accept(l)
}

func rpcURL() string {
	if isDev() {
		return rpcHostDbg
	}

	return rpcHost
}
