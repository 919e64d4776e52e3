package recovercmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/eluv-io/shamir-recover/group"
	"github.com/eluv-io/shamir-recover/group/secretsharing"
	"github.com/eluv-io/shamir-recover/sharefile"
)

const (
	// input share files flag.
	inputFlagName      = "input"
	inputEnvKey        = "RECOVER_INPUT"
	inputFlagShorthand = "i"
	inputFlagUsage     = "Share file to recover the secret from (JSON, or YAML with a .yaml/.yml extension)." +
		" This flag can be repeated; positional arguments are added to it." +
		" Alternatively, this can be set with the following environment variable (in CSV format): " + inputEnvKey

	// output file flag.
	outputFlagName      = "output"
	outputEnvKey        = "RECOVER_OUTPUT"
	outputFlagShorthand = "o"
	outputFlagUsage     = "File to write the results to, in addition to standard output." +
		" Alternatively, this can be set with the following environment variable: " + outputEnvKey

	// reconstruction group flag.
	groupFlagName      = "group"
	groupEnvKey        = "RECOVER_GROUP"
	groupFlagShorthand = "g"
	groupFlagUsage     = "Arithmetic the shares were made in." +
		" Possible values [rational] [secp256k1] [p256] [p384] [ristretto255]. Defaults to rational if not set." +
		" Alternatively, this can be set with the following environment variable: " + groupEnvKey

	// output base flag.
	outputBaseFlagName  = "output-base"
	outputBaseEnvKey    = "RECOVER_OUTPUT_BASE"
	outputBaseFlagUsage = "Base the secret is written in, between 2 and 62. Defaults to 10 if not set." +
		" Alternatively, this can be set with the following environment variable: " + outputBaseEnvKey

	// allow inexact flag.
	allowInexactFlagName  = "allow-inexact"
	allowInexactEnvKey    = "RECOVER_ALLOW_INEXACT"
	allowInexactFlagUsage = "Print the truncated value instead of failing when the interpolated secret is not an integer." +
		" Possible values [true] [false]. Defaults to false if not set." +
		" Alternatively, this can be set with the following environment variable: " + allowInexactEnvKey

	// log level.
	logLevelFlagName  = "log-level"
	logLevelEnvKey    = "RECOVER_LOG_LEVEL"
	logLevelFlagUsage = "Log level." +
		" Possible values [debug] [info] [warn] [error]. Defaults to info if not set." +
		" Alternatively, this can be set with the following environment variable: " + logLevelEnvKey

	rationalGroup     = "rational"
	defaultOutputBase = 10
)

var errMissingInput = errors.New("no share files given")

// nolint:gochecknoglobals
var newLogger = func(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

type recoverParameters struct {
	inputs       []string
	output       string
	group        group.Group
	outputBase   int
	allowInexact bool
	logger       *zap.Logger
	out          io.Writer
}

// Cmd returns the Cobra recover command.
func Cmd() *cobra.Command {
	recoverCmd := createRecoverCMD()

	createFlags(recoverCmd)

	return recoverCmd
}

func createRecoverCMD() *cobra.Command {
	return &cobra.Command{
		Use:          "recover [share files]",
		Short:        "Recover a secret",
		Long:         `Recover the secret of a threshold sharing from the shares in one or more share files`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			parameters, err := getParameters(cmd, args)
			if err != nil {
				return err
			}
			defer parameters.logger.Sync() // nolint:errcheck

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			return recoverSecrets(ctx, parameters)
		},
	}
}

func getParameters(cmd *cobra.Command, args []string) (*recoverParameters, error) {
	logLevel, err := getUserSetVar(cmd, logLevelFlagName, logLevelEnvKey, true)
	if err != nil {
		return nil, err
	}

	logger, err := createLogger(logLevel)
	if err != nil {
		return nil, err
	}

	inputs, err := getUserSetVars(cmd, inputFlagName, inputEnvKey, true)
	if err != nil {
		return nil, err
	}

	inputs = append(inputs, args...)
	if len(inputs) == 0 {
		return nil, errMissingInput
	}

	output, err := getUserSetVar(cmd, outputFlagName, outputEnvKey, true)
	if err != nil {
		return nil, err
	}

	g, err := getGroup(cmd)
	if err != nil {
		return nil, err
	}

	outputBase, err := getOutputBase(cmd)
	if err != nil {
		return nil, err
	}

	allowInexact, err := getAllowInexactValue(cmd)
	if err != nil {
		return nil, err
	}

	return &recoverParameters{
		inputs:       inputs,
		output:       output,
		group:        g,
		outputBase:   outputBase,
		allowInexact: allowInexact,
		logger:       logger,
		out:          cmd.OutOrStdout(),
	}, nil
}

func createLogger(logLevel string) (*zap.Logger, error) {
	level := zapcore.InfoLevel

	if logLevel != "" {
		var err error

		level, err = zapcore.ParseLevel(logLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to parse log level '%s' : %w", logLevel, err)
		}
	}

	return newLogger(level)
}

func getGroup(cmd *cobra.Command) (group.Group, error) {
	name, err := getUserSetVar(cmd, groupFlagName, groupEnvKey, true)
	if err != nil {
		return nil, err
	}

	if name == "" || strings.EqualFold(name, rationalGroup) {
		return nil, nil
	}

	return group.ByName(name)
}

func getOutputBase(cmd *cobra.Command) (int, error) {
	v, err := getUserSetVar(cmd, outputBaseFlagName, outputBaseEnvKey, true)
	if err != nil {
		return 0, err
	}

	if v == "" {
		return defaultOutputBase, nil
	}

	base, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("failed to parse output base %s: %w", v, err)
	}

	return base, nil
}

func getAllowInexactValue(cmd *cobra.Command) (bool, error) {
	v, err := getUserSetVar(cmd, allowInexactFlagName, allowInexactEnvKey, true)
	if err != nil {
		return false, err
	}

	if v == "" {
		return false, nil
	}

	return strconv.ParseBool(v)
}

func createFlags(recoverCmd *cobra.Command) {
	// input share files
	recoverCmd.Flags().StringSliceP(inputFlagName, inputFlagShorthand, []string{}, inputFlagUsage)

	// output file
	recoverCmd.Flags().StringP(outputFlagName, outputFlagShorthand, "", outputFlagUsage)

	// reconstruction group
	recoverCmd.Flags().StringP(groupFlagName, groupFlagShorthand, "", groupFlagUsage)

	// output base
	recoverCmd.Flags().StringP(outputBaseFlagName, "", "", outputBaseFlagUsage)

	// allow inexact
	recoverCmd.Flags().StringP(allowInexactFlagName, "", "", allowInexactFlagUsage)

	// log level
	recoverCmd.Flags().StringP(logLevelFlagName, "", "", logLevelFlagUsage)
}

// recoverSecrets reconstructs every input concurrently and writes one result
// line per input, in input order.
func recoverSecrets(ctx context.Context, parameters *recoverParameters) error {
	results := make([]string, len(parameters.inputs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range parameters.inputs {
		i, path := i, path

		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			line, err := recoverFile(parameters, path)
			if err != nil {
				return err
			}

			results[i] = line

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	var sb strings.Builder

	for i, line := range results {
		if len(results) > 1 {
			sb.WriteString(parameters.inputs[i] + ": ")
		}

		sb.WriteString(line + "\n")
	}

	if _, err := io.WriteString(parameters.out, sb.String()); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	if parameters.output != "" {
		if err := os.WriteFile(parameters.output, []byte(sb.String()), 0o600); err != nil {
			return fmt.Errorf("failed to write results to %s: %w", parameters.output, err)
		}

		parameters.logger.Debug("results written", zap.String("output", parameters.output))
	}

	return nil
}

func recoverFile(parameters *recoverParameters, path string) (string, error) {
	set, err := sharefile.ParseFile(path)
	if err != nil {
		return "", err
	}

	groupName := rationalGroup
	if parameters.group != nil {
		groupName = parameters.group.String()
	}

	logger := parameters.logger.With(
		zap.String("file", path),
		zap.Int("n", set.N),
		zap.Int("k", set.K),
		zap.Int("shares", len(set.Shares)),
		zap.String("group", groupName),
	)

	if set.N != len(set.Shares) {
		logger.Debug("declared share count differs from shares present")
	}

	secret, err := set.Recover(parameters.group)

	var nonIntegral *secretsharing.NonIntegralError

	switch {
	case errors.As(err, &nonIntegral) && parameters.allowInexact:
		logger.Warn("secret is not an integer, using truncated value", zap.Stringer("exact", nonIntegral.Value))
	case err != nil:
		return "", fmt.Errorf("%s: %w", path, err)
	}

	fingerprint, err := set.Fingerprint()
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	logger.Info("secret recovered", zap.String("fingerprint", fingerprint))

	return sharefile.FormatResult(secret, parameters.outputBase)
}

func getUserSetVar(cmd *cobra.Command, flagName, envKey string, isOptional bool) (string, error) {
	if cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetString(flagName)
		if err != nil {
			return "", fmt.Errorf(flagName+" flag not found: %s", err)
		}

		return value, nil
	}

	value, isSet := os.LookupEnv(envKey)

	if isOptional || isSet {
		return value, nil
	}

	return "", errors.New("Neither " + flagName + " (command line flag) nor " + envKey +
		" (environment variable) have been set.")
}

func getUserSetVars(cmd *cobra.Command, flagName, envKey string, isOptional bool) ([]string, error) {
	if cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetStringSlice(flagName)
		if err != nil {
			return nil, fmt.Errorf(flagName+" flag not found: %s", err)
		}

		return value, nil
	}

	value, isSet := os.LookupEnv(envKey)

	if isOptional || isSet {
		if value == "" {
			return nil, nil
		}

		return strings.Split(value, ","), nil
	}

	return nil, errors.New("Neither " + flagName + " (command line flag) nor " + envKey +
		" (environment variable) have been set.")
}
