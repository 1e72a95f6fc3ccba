package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"

	"github.com/ryan-gang/kindle-sendto/internal/cmdutil"
	"github.com/ryan-gang/kindle-sendto/internal/server"
	"github.com/ryan-gang/kindle-sendto/internal/util"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.AddCommand(serveStatusCmd)
	serveCmd.AddCommand(serveStopCmd)

	serveCmd.Flags().StringP("addr", "a", "", "Listen address, overrides the configured one")
}

var serveExample = dedent.Dedent(`
	# Serve on the configured address
	kindle-send serve

	# Upload a book to the running server
	curl -F email=me@kindle.com -F files=@book.epub http://localhost:5003/api/sendto`,
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Run the HTTP send to device service",
	Long:    `Run an HTTP service that accepts e-book uploads and mails them to the given device address.`,
	Example: serveExample,
	Run: func(cmd *cobra.Command, args []string) {
		c := cmdutil.LoadConfigOrExit(cmd)
		if c == nil {
			os.Exit(1)
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			c.ServerAddr = addr
		}

		svc, err := cmdutil.NewServices(c)
		if err != nil {
			util.LogError(util.ServerError, "creating logger", err)
			os.Exit(1)
		}
		defer svc.Close()

		pidFile := svc.Config.GetPidFile()
		if err := server.WritePidFile(pidFile); err != nil {
			util.LogError(util.ServerError, "writing pid file", err)
			os.Exit(1)
		}
		defer server.RemovePidFile(pidFile)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := server.New(svc.Config.GetServerAddr(), svc.Dispatcher, svc.Validator, svc.Log)

		util.GreenBold.Printf("kindle-send listening on %s\n", svc.Config.GetServerAddr())
		util.Cyan.Printf("PID file: %s\n", pidFile)
		util.Cyan.Printf("Log file: %s\n", svc.Config.GetLogPath())
		svc.Log.Infof("Server started with PID %d on %s", os.Getpid(), svc.Config.GetServerAddr())

		if err := srv.Run(ctx); err != nil {
			svc.Log.Errorf("Server stopped: %v", err)
			util.LogError(util.ServerError, "running server", err)
			os.Exit(1)
		}
		util.Green.Println("Server stopped")
	},
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the server is running",
	Run: func(cmd *cobra.Command, args []string) {
		c := cmdutil.LoadConfigOrExit(cmd)
		if c == nil {
			os.Exit(1)
		}
		pid, ok := server.RunningPid(c.PidFile)
		if !ok {
			util.Red.Println("Server is not running")
			os.Exit(1)
		}
		util.Green.Printf("Server is running (PID: %d)\n", pid)
		util.Cyan.Printf("Listen address: %s\n", c.ServerAddr)
	},
}

var serveStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running server",
	Run: func(cmd *cobra.Command, args []string) {
		c := cmdutil.LoadConfigOrExit(cmd)
		if c == nil {
			os.Exit(1)
		}
		pid, err := server.Stop(c.PidFile)
		if errors.Is(err, server.ErrNotRunning) {
			util.Red.Println("Server is not running")
			return
		}
		if err != nil {
			util.LogError(util.ServerError, "stopping server", err)
			os.Exit(1)
		}
		util.Green.Printf("Sent stop signal to PID %d\n", pid)
	},
}
