// Package simulator seeds an engine with randomly generated limit orders
// for demos and load tests.
package simulator

import (
	"context"
	"errors"
	"math"
	"math/rand"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/joripage/matching-engine/pkg/engine/model"
)

type Config struct {
	Symbol    string  `yaml:"symbol"`
	NumOrders int     `yaml:"num_orders"`
	MinPrice  float64 `yaml:"min_price"`
	MaxPrice  float64 `yaml:"max_price"`
	MinQty    float64 `yaml:"min_qty"`
	MaxQty    float64 `yaml:"max_qty"`
	Seed      int64   `yaml:"seed"`
}

// CenterOn re-anchors the price range around a reference price.
// spreadPct is the total width of the range as a percentage of the
// reference price, half above and half below.
func (c *Config) CenterOn(price decimal.Decimal, spreadPct float64) {
	mid := price.InexactFloat64()
	half := mid * spreadPct / 200
	c.MinPrice = mid - half
	c.MaxPrice = mid + half
}

func (c *Config) validate() error {
	for _, v := range []float64{c.MinPrice, c.MaxPrice, c.MinQty, c.MaxQty} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return errors.New("simulator ranges must be finite and positive")
		}
	}
	if c.MinPrice > c.MaxPrice || c.MinQty > c.MaxQty {
		return errors.New("simulator ranges must be ordered")
	}
	if c.NumOrders <= 0 {
		return errors.New("simulator needs a positive order count")
	}
	return nil
}

type orderSubmitter interface {
	SubmitOrder(ctx context.Context, req *model.SubmitOrder) (uint64, error)
}

type Simulator struct {
	cfg    *Config
	engine orderSubmitter
	rng    *rand.Rand
}

func NewSimulator(cfg *Config, engine orderSubmitter) *Simulator {
	return &Simulator{
		cfg:    cfg,
		engine: engine,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Run submits NumOrders random limit orders: first half buys, second half
// sells, prices and quantities sampled uniformly from the configured
// ranges.
func (s *Simulator) Run(ctx context.Context) error {
	if err := s.cfg.validate(); err != nil {
		return err
	}

	half := s.cfg.NumOrders / 2
	for i := 0; i < half; i++ {
		if err := s.submitRandom(ctx, model.OrderSideBuy); err != nil {
			return err
		}
	}
	for i := 0; i < s.cfg.NumOrders-half; i++ {
		if err := s.submitRandom(ctx, model.OrderSideSell); err != nil {
			return err
		}
	}

	zap.S().Infof("seeded %d synthetic orders on %s", s.cfg.NumOrders, s.cfg.Symbol)
	return nil
}

func (s *Simulator) submitRandom(ctx context.Context, side model.OrderSide) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	_, err := s.engine.SubmitOrder(ctx, &model.SubmitOrder{
		Symbol:   s.cfg.Symbol,
		Side:     side,
		Price:    s.samplePrice(),
		Quantity: s.sampleQty(),
	})
	return err
}

func (s *Simulator) samplePrice() decimal.Decimal {
	v := s.cfg.MinPrice + s.rng.Float64()*(s.cfg.MaxPrice-s.cfg.MinPrice)
	// round to 2 decimal places
	return decimal.NewFromFloat(v).Round(2)
}

func (s *Simulator) sampleQty() decimal.Decimal {
	v := s.cfg.MinQty + s.rng.Float64()*(s.cfg.MaxQty-s.cfg.MinQty)
	return decimal.NewFromFloat(v).Round(4)
}
