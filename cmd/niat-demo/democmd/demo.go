/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package democmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/spf13/cobra"

	"github.com/aayux/niat/internal/logutil"
	"github.com/aayux/niat/pkg/niat"
)

const (
	logLevelFlagName  = "log-level"
	logLevelEnvKey    = "NIAT_LOG_LEVEL"
	logLevelFlagUsage = "Logging level to set. Supported options: CRITICAL, ERROR, WARNING, INFO, DEBUG." +
		" Defaults to INFO if not set. Alternatively, this can be set with the following environment variable: " +
		logLevelEnvKey

	trialsFlagName      = "trials"
	trialsFlagShorthand = "t"
	trialsEnvKey        = "NIAT_TRIALS"
	trialsFlagUsage     = "Number of round trips per bit. Defaults to 1." +
		" Alternatively, this can be set with the following environment variable: " + trialsEnvKey

	batchSizeFlagName      = "batch-size"
	batchSizeFlagShorthand = "n"
	batchSizeEnvKey        = "NIAT_BATCH_SIZE"
	batchSizeFlagUsage     = "Number of presignatures issued and verified as one batch. Defaults to 30." +
		" Alternatively, this can be set with the following environment variable: " + batchSizeEnvKey

	workersFlagName      = "workers"
	workersFlagShorthand = "w"
	workersEnvKey        = "NIAT_WORKERS"
	workersFlagUsage     = "Maximum goroutines used by batch verification. Defaults to the number of CPUs." +
		" Alternatively, this can be set with the following environment variable: " + workersEnvKey

	unweightedFlagName      = "unweighted"
	unweightedFlagShorthand = "u"
	unweightedEnvKey        = "NIAT_UNWEIGHTED"
	unweightedFlagUsage     = "Set to true to verify batches without random weights." +
		" Alternatively, this can be set with the following environment variable: " + unweightedEnvKey

	defaultTrials    = 1
	defaultBatchSize = 30
)

var logger = log.New("niat/demo")

var errBitMismatch = errors.New("bit extraction failed")

// RoundTripCmd returns the command running Issue, Obtain and ReadBit for both bits.
func RoundTripCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roundtrip",
		Short: "Run single token round trips",
		Long:  `Issue, obtain and redeem one token per bit and check the extracted bit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setLogLevelFromCmd(cmd); err != nil {
				return err
			}

			trials, err := getIntVar(cmd, trialsFlagName, trialsEnvKey, defaultTrials)
			if err != nil {
				return err
			}

			return runRoundTrips(cmd.OutOrStdout(), trials)
		},
	}

	cmd.Flags().StringP(trialsFlagName, trialsFlagShorthand, "", trialsFlagUsage)
	cmd.Flags().StringP(logLevelFlagName, "", "", logLevelFlagUsage)

	return cmd
}

// BatchCmd returns the command issuing a batch of tokens and verifying it on both sides.
func BatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run a batched issuance",
		Long:  `Issue a batch of tokens with alternating bits, batch verify them on the client and on the issuer`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setLogLevelFromCmd(cmd); err != nil {
				return err
			}

			params, err := getBatchParameters(cmd)
			if err != nil {
				return err
			}

			return runBatch(cmd.OutOrStdout(), params)
		},
	}

	cmd.Flags().StringP(batchSizeFlagName, batchSizeFlagShorthand, "", batchSizeFlagUsage)
	cmd.Flags().StringP(workersFlagName, workersFlagShorthand, "", workersFlagUsage)
	cmd.Flags().StringP(unweightedFlagName, unweightedFlagShorthand, "", unweightedFlagUsage)
	cmd.Flags().StringP(logLevelFlagName, "", "", logLevelFlagUsage)

	return cmd
}

type batchParameters struct {
	size       int
	workers    int
	unweighted bool
}

func (p *batchParameters) opts() []niat.Opt {
	var opts []niat.Opt

	if p.workers > 0 {
		opts = append(opts, niat.WithWorkers(p.workers))
	}

	if p.unweighted {
		opts = append(opts, niat.WithUnweightedBatch())
	}

	return opts
}

func getBatchParameters(cmd *cobra.Command) (*batchParameters, error) {
	size, err := getIntVar(cmd, batchSizeFlagName, batchSizeEnvKey, defaultBatchSize)
	if err != nil {
		return nil, err
	}

	workers, err := getIntVar(cmd, workersFlagName, workersEnvKey, 0)
	if err != nil {
		return nil, err
	}

	unweighted, err := getUserSetVar(cmd, unweightedFlagName, unweightedEnvKey)
	if err != nil {
		return nil, err
	}

	params := &batchParameters{size: size, workers: workers}

	if unweighted != "" {
		params.unweighted, err = strconv.ParseBool(unweighted)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", unweightedFlagName, err)
		}
	}

	return params, nil
}

func runRoundTrips(out io.Writer, trials int) error {
	issuer, err := niat.NewIssuer()
	if err != nil {
		return err
	}

	client, err := niat.NewClient(issuer.PublicKey())
	if err != nil {
		return err
	}

	failed := false

	for i := 0; i < trials; i++ {
		for _, b := range []niat.Bit{niat.BitZero, niat.BitOne} {
			p, err := issuer.Issue(client.PublicKey(), b)
			if err != nil {
				return err
			}

			tok, err := client.Obtain(p, false)
			if err != nil {
				return err
			}

			res, err := issuer.ReadBit(tok, false)
			if err != nil {
				return err
			}

			if got, ok := res.Bit(); !ok || got != b {
				fmt.Fprintf(out, "ERR: bit extraction invalid: expected %d got %s\n", b, res)
				logutil.LogError(logger, "demo", "roundtrip", errBitMismatch.Error(),
					logutil.KV("trial", i), logutil.KV("expected", b), logutil.KV("got", res))

				failed = true

				continue
			}

			fmt.Fprintf(out, "OK: Bit %d extracted\n", b)
		}
	}

	if failed {
		return errBitMismatch
	}

	return nil
}

func runBatch(out io.Writer, params *batchParameters) error {
	if params.size < 1 {
		return fmt.Errorf("%s must be positive, got %d", batchSizeFlagName, params.size)
	}

	issuer, err := niat.NewIssuer(params.opts()...)
	if err != nil {
		return err
	}

	client, err := niat.NewClient(issuer.PublicKey(), params.opts()...)
	if err != nil {
		return err
	}

	ps := make([]*niat.Presignature, params.size)

	for i := range ps {
		ps[i], err = issuer.Issue(client.PublicKey(), bitAt(i))
		if err != nil {
			return err
		}
	}

	if err = client.VerifyPresignatures(ps); err != nil {
		fmt.Fprintf(out, "ERR: client batch verification failed: %s\n", err)

		return err
	}

	toks := make([]*niat.Token, params.size)

	for i, p := range ps {
		toks[i], err = client.Obtain(p, true)
		if err != nil {
			return err
		}
	}

	if err = issuer.VerifyTokens(toks); err != nil {
		fmt.Fprintf(out, "ERR: issuer batch verification failed: %s\n", err)

		return err
	}

	mismatches := 0

	for i, tok := range toks {
		res, err := issuer.ReadBit(tok, true)
		if err != nil {
			return err
		}

		if got, ok := res.Bit(); !ok || got != bitAt(i) {
			fmt.Fprintf(out, "ERR: bit extraction invalid: expected %d got %s\n", bitAt(i), res)

			mismatches++
		}
	}

	fmt.Fprintf(out, "batch of %d: %d bits extracted, %d mismatches\n", params.size, params.size-mismatches,
		mismatches)
	logutil.LogInfo(logger, "demo", "batch", "batch finished", logutil.KV("size", params.size),
		logutil.KV("mismatches", mismatches), logutil.KV("unweighted", params.unweighted))

	if mismatches > 0 {
		return errBitMismatch
	}

	return nil
}

func bitAt(i int) niat.Bit {
	return niat.Bit(i % 2) // nolint:gomnd
}

func getIntVar(cmd *cobra.Command, flagName, envKey string, defaultValue int) (int, error) {
	value, err := getUserSetVar(cmd, flagName, envKey)
	if err != nil {
		return 0, err
	}

	if value == "" {
		return defaultValue, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", flagName, err)
	}

	return n, nil
}

// getUserSetVar returns the flag value when set, else the environment variable, else "".
func getUserSetVar(cmd *cobra.Command, flagName, envKey string) (string, error) {
	if cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetString(flagName)
		if err != nil {
			return "", fmt.Errorf(flagName+" flag not found: %s", err)
		}

		return value, nil
	}

	return os.Getenv(envKey), nil
}

func setLogLevelFromCmd(cmd *cobra.Command) error {
	logLevel, err := getUserSetVar(cmd, logLevelFlagName, logLevelEnvKey)
	if err != nil {
		return err
	}

	return setLogLevel(logLevel)
}

func setLogLevel(logLevel string) error {
	if logLevel != "" {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("failed to parse log level '%s' : %w", logLevel, err)
		}

		log.SetLevel("", level)

		logger.Infof("logger level set to %s", logLevel)
	}

	return nil
}
