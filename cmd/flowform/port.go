package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"flowform/internal/bootport"
)

var (
	portPrint       bool
	portWriteActive bool
	portWait        bool
	portWaitPort    int
	portWaitTimeout time.Duration
)

var portCmd = &cobra.Command{
	Use:   "port",
	Short: "Resolve and monitor the boot port",
	Long: `Resolves the listen port from PORTS.json and the free-port scan
without starting the server, or waits for a port to come up.`,
	RunE: runPort,
}

func init() {
	portCmd.Flags().BoolVar(&portPrint, "print-port", false, "print the resolved port")
	portCmd.Flags().BoolVar(&portWriteActive, "write-active", false, "write ACTIVE_PORTS.json")
	portCmd.Flags().BoolVar(&portWait, "wait", false, "wait for a port to become open")
	portCmd.Flags().IntVar(&portWaitPort, "port", 0, "port used with --wait")
	portCmd.Flags().DurationVar(&portWaitTimeout, "timeout", 30*time.Second, "timeout for --wait")
	rootCmd.AddCommand(portCmd)
}

func runPort(cmd *cobra.Command, args []string) error {
	if portWait {
		if portWaitPort == 0 {
			return errors.New("--wait requires --port")
		}
		return bootport.WaitForPort("127.0.0.1", portWaitPort, portWaitTimeout)
	}

	port, err := bootport.ResolvePort("PORTS.json", "127.0.0.1")
	if err != nil {
		return err
	}
	if portWriteActive {
		if err := bootport.WriteActivePorts("ACTIVE_PORTS.json", port); err != nil {
			return err
		}
	}
	if portPrint {
		fmt.Println(port)
	}
	return nil
}
