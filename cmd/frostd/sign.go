package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"math"
	"os"

	"github.com/f3rmion/frostd/dkg"
	"github.com/f3rmion/frostd/frost"
	"github.com/f3rmion/frostd/internal/logging"
	"github.com/f3rmion/frostd/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSignCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Generate a group key and sign a message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSign(cmd.Context(), cmd, v)
		},
	}

	flags := cmd.Flags()
	flags.String("mode", "dealer", "key establishment: dealer or dkg")
	flags.Uint16("max", 5, "number of participants")
	flags.Uint16("min", 3, "signing threshold")
	flags.String("message", "random message", "message to sign")
	flags.String("group", "bjj", "group: bjj or secp256k1")
	flags.String("hasher", "sha256", "hasher: sha256, blake2b or blake3")
	flags.String("advance", "above-min", "dkg advance policy: above-min or all-peers")
	flags.String("outcome", "require-all", "dkg outcome policy: require-all or leader-only")
	flags.Duration("timeout", session.DefaultTimeout, "dkg timeout")
	return cmd
}

func runSign(ctx context.Context, cmd *cobra.Command, v *viper.Viper) error {
	log, err := logging.New(os.Stderr, v.GetString("log-level"), v.GetBool("log-console"))
	if err != nil {
		return err
	}

	g, err := session.GroupByName(v.GetString("group"))
	if err != nil {
		return err
	}
	h, err := session.HasherByName(v.GetString("hasher"))
	if err != nil {
		return err
	}
	advance, err := dkg.ParseAdvancePolicy(v.GetString("advance"))
	if err != nil {
		return err
	}
	outcome, err := session.ParseOutcomePolicy(v.GetString("outcome"))
	if err != nil {
		return err
	}

	maxSigners, err := uint16Setting(v, "max")
	if err != nil {
		return err
	}
	minSigners, err := uint16Setting(v, "min")
	if err != nil {
		return err
	}

	cfg := session.Config{
		MaxSigners: maxSigners,
		MinSigners: minSigners,
		Group:      g,
		Hasher:     h,
		Advance:    advance,
		Outcome:    outcome,
		Timeout:    v.GetDuration("timeout"),
		Logger:     &log,
	}
	message := []byte(v.GetString("message"))

	var (
		sig *frost.Signature
		pub *frost.PublicKeyPackage
	)
	switch mode := v.GetString("mode"); mode {
	case "dealer":
		sig, pub, err = session.SignViaTrustedDealer(ctx, cfg, message)
	case "dkg":
		sig, pub, err = session.SignViaDistributedDealer(ctx, cfg, message)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "group key: %s\n", hex.EncodeToString(pub.VerifyingKey.Bytes()))
	fmt.Fprintf(out, "signature: %s\n", hex.EncodeToString(sig.Bytes()))
	return nil
}

// uint16Setting reads key without truncating. Values from the config
// file or environment bypass the flag's own range check.
func uint16Setting(v *viper.Viper, key string) (uint16, error) {
	n := v.GetUint64(key)
	if n > math.MaxUint16 {
		return 0, fmt.Errorf("%s: %d out of range", key, n)
	}
	return uint16(n), nil
}
