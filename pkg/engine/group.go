package engine

import (
	"slices"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/salesdata/pkg/models"
)

// group accumulates the records sharing one key.
type group struct {
	key   string
	sum   decimal.Decimal
	count int // records in the group
	valid int // records with a valid amount
}

func (g *group) add(amount models.Field[decimal.Decimal]) {
	g.count++
	if v, ok := amount.Get(); ok {
		g.sum = g.sum.Add(v)
		g.valid++
	}
}

// mean is undefined for a group without a single valid amount.
func (g *group) mean() models.Value {
	if g.valid == 0 {
		return models.Undefined()
	}
	return number(g.sum.Div(decimal.NewFromInt(int64(g.valid))))
}

// grouper keeps groups in first-seen order.
type grouper struct {
	index map[string]*group
	order []*group
}

func newGrouper() *grouper {
	return &grouper{index: make(map[string]*group)}
}

func (gr *grouper) add(key string, amount models.Field[decimal.Decimal]) {
	g, ok := gr.index[key]
	if !ok {
		g = &group{key: key}
		gr.index[key] = g
		gr.order = append(gr.order, g)
	}
	g.add(amount)
}

// groups returns the groups in first-seen order.
func (gr *grouper) groups() []*group {
	return slices.Clone(gr.order)
}

// byKey returns the groups ordered by key. Date keys are zero-padded so this
// is chronological.
func (gr *grouper) byKey() []*group {
	out := gr.groups()
	sort.SliceStable(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

func number(d decimal.Decimal) models.Value {
	return models.Number(d.InexactFloat64())
}
