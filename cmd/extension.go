package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/etnz/sprout/logger"
)

// Environment passed to extensions, with the values of the global flags.
const (
	EnvDataDir  = "SPROUT_DATA_DIR"
	EnvProvider = "SPROUT_PROVIDER"
	EnvCurrency = "SPROUT_CURRENCY"
	EnvVerbose  = "SPROUT_VERBOSE"
)

// RunExtension attempts to find and execute an external sprout-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(ctx context.Context, subcommand string, args []string) (bool, int) {
	name := "sprout-" + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		logger.FromContext(ctx).Debugw("no extension", "command", name, "error", err)
		return false, 0
	}

	cmd := exec.CommandContext(ctx, lp, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	// Global flags are passed as environment variables, empty ones are left to
	// the environment.
	cmd.Env = os.Environ()
	for _, v := range []struct{ name, value string }{
		{EnvDataDir, *dataDir},
		{EnvProvider, *provider},
		{EnvCurrency, *currency},
	} {
		if v.value != "" {
			cmd.Env = append(cmd.Env, v.name+"="+v.value)
		}
	}
	cmd.Env = append(cmd.Env, EnvVerbose+"="+strconv.FormatBool(*verbose))

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
