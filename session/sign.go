package session

import (
	"context"

	"github.com/f3rmion/frostd/dealer"
	"github.com/f3rmion/frostd/frost"
)

// SignViaTrustedDealer splits a fresh group key among cfg.MaxSigners
// local signers and signs message with all of them.
func SignViaTrustedDealer(ctx context.Context, cfg Config, message []byte) (*frost.Signature, *frost.PublicKeyPackage, error) {
	cfg = cfg.withDefaults()
	if err := frost.ValidateParams(cfg.MaxSigners, cfg.MinSigners); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	f := cfg.frost()
	c, err := dealer.Generate(f, cfg.Rand, cfg.MaxSigners, cfg.MinSigners)
	if err != nil {
		return nil, nil, err
	}
	return sign(ctx, cfg, c, message)
}

// SignViaDistributedDealer runs a distributed key generation (see
// [RunDKG]) and signs message with every participant that completed.
func SignViaDistributedDealer(ctx context.Context, cfg Config, message []byte) (*frost.Signature, *frost.PublicKeyPackage, error) {
	cfg = cfg.withDefaults()
	res, err := RunDKG(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	c, err := dealer.NewCoordinator(cfg.frost(), cfg.Rand, res.PublicKeyPackage, res.KeyPackages)
	if err != nil {
		return nil, nil, err
	}
	return sign(ctx, cfg, c, message)
}

func sign(ctx context.Context, cfg Config, c *dealer.Coordinator, message []byte) (*frost.Signature, *frost.PublicKeyPackage, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	c.Log = cfg.Logger.With().Str("group", cfg.Group.Name()).Logger()

	sig, err := c.Sign(message)
	if err != nil {
		return nil, nil, err
	}
	return sig, c.PublicKeyPackage(), nil
}
