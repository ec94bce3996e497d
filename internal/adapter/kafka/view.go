package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lovoo/goka"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.BlocklistReader = (*BlocklistView)(nil)

type tableGetter interface {
	Get(key string) (any, error)
}

// A BlocklistView is a local replica of the filter group table.
type BlocklistView struct {
	gv     *goka.View
	getter tableGetter
}

func NewBlocklistView(
	seedBrokers []string, group string,
) (*BlocklistView, error) {
	const op = "NewBlocklistView"

	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(group)),
		blockValueCodec{},
		withNoLogViewOpt(),
	)
	if err != nil {
		return nil, opErr(err, op)
	}

	return &BlocklistView{gv: gv, getter: gv}, nil
}

func (v *BlocklistView) Run(ctx context.Context, wg *sync.WaitGroup) {
	const op = "BlocklistView.Run"
	log := slog.With("op", op)

	defer wg.Done()

	log.Info("running")
	if err := v.gv.Run(ctx); err != nil {
		log.Error("unexpected fail on run", "err", err)
		return
	}
	log.Info("stopped")
}

func (v *BlocklistView) IsBlocked(productName string) (bool, error) {
	const op = "BlocklistView.IsBlocked"

	val, err := v.getter.Get(domain.BlocklistKey(productName))
	if err != nil {
		return false, opErr(err, op)
	}
	if val == nil {
		return false, nil
	}

	bv, ok := val.(blockValue)
	if !ok {
		return false, opErr(fmt.Errorf("%w: %T", ErrInvalidValueType, val), op)
	}
	return bool(bv), nil
}
