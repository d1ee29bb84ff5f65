package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/waterlog/app"
	"github.com/kilianp07/waterlog/core/logging"
)

var (
	logName  string
	writeTag string
)

var writeCmd = &cobra.Command{
	Use:   "write [message...]",
	Short: "Write one line to a configured log",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWrite,
}

var pipeCmd = &cobra.Command{
	Use:   "pipe",
	Short: "Write every line read from stdin to a configured log",
	Args:  cobra.NoArgs,
	RunE:  runPipe,
}

func init() {
	for _, c := range []*cobra.Command{writeCmd, pipeCmd} {
		c.Flags().StringVarP(&logName, "log", "l", "", "log name (defaults to the first configured log)")
		c.Flags().StringVarP(&writeTag, "tag", "t", "", "message tag")
		rootCmd.AddCommand(c)
	}
}

func pickLog(svc *app.Service, name string) (*logging.Log, error) {
	if name != "" {
		l, ok := svc.Log(name)
		if !ok {
			return nil, fmt.Errorf("log %q is not configured", name)
		}
		return l, nil
	}
	logs := svc.Logs()
	if len(logs) == 0 {
		return nil, fmt.Errorf("no log configured")
	}
	return logs[0], nil
}

func runWrite(cmd *cobra.Command, args []string) error {
	svc, err := loadService()
	if err != nil {
		return err
	}
	defer closeService(cmd, svc)
	l, err := pickLog(svc, logName)
	if err != nil {
		return err
	}
	return l.WriteLineTag(strings.Join(args, " "), writeTag)
}

func runPipe(cmd *cobra.Command, _ []string) error {
	svc, err := loadService()
	if err != nil {
		return err
	}
	defer closeService(cmd, svc)
	l, err := pickLog(svc, logName)
	if err != nil {
		return err
	}
	scanner := bufio.NewScanner(cmd.InOrStdin())
	var failed int
	for scanner.Scan() {
		if err := l.WriteLineTag(scanner.Text(), writeTag); err != nil {
			failed++
			if _, ferr := fmt.Fprintf(cmd.ErrOrStderr(), "write: %v\n", err); ferr != nil {
				return ferr
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d lines failed", failed)
	}
	return nil
}
