package tree

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	RBTreeStatsName = "minimalist/rbtree"
)

type rebalanceOp string

const (
	rebalanceInsert rebalanceOp = "insert"
	rebalanceRemove rebalanceOp = "remove"
)

var (
	leftRotationAttrs    = metric.WithAttributeSet(attribute.NewSet(attribute.String("rbtree.rotation.direction", Left.String())))
	rightRotationAttrs   = metric.WithAttributeSet(attribute.NewSet(attribute.String("rbtree.rotation.direction", Right.String())))
	insertRebalanceAttrs = metric.WithAttributeSet(attribute.NewSet(attribute.String("rbtree.rebalance.op", string(rebalanceInsert))))
	removeRebalanceAttrs = metric.WithAttributeSet(attribute.NewSet(attribute.String("rbtree.rebalance.op", string(rebalanceRemove))))
)

// rbTreeStats is nil when stats are disabled, every recorder checks it.
type rbTreeStats struct {
	nodeCount      metric.Int64UpDownCounter
	rotationCount  metric.Int64Counter
	rebalanceCount metric.Int64Counter
}

func (stats *rbTreeStats) RecordNodeCount(delta int64) {
	if stats == nil || delta == 0 {
		return
	}
	stats.nodeCount.Add(context.Background(), delta)
}

func (stats *rbTreeStats) IncreaseRotationCount(dir RBDirection) {
	if stats == nil {
		return
	}
	switch dir {
	case Left:
		stats.rotationCount.Add(context.Background(), 1, leftRotationAttrs)
	case Right:
		stats.rotationCount.Add(context.Background(), 1, rightRotationAttrs)
	default:
	}
}

func (stats *rbTreeStats) IncreaseRebalanceCount(op rebalanceOp) {
	if stats == nil {
		return
	}
	switch op {
	case rebalanceInsert:
		stats.rebalanceCount.Add(context.Background(), 1, insertRebalanceAttrs)
	case rebalanceRemove:
		stats.rebalanceCount.Add(context.Background(), 1, removeRebalanceAttrs)
	default:
	}
}

func newRBTreeStats(name string) *rbTreeStats {
	meter := otel.Meter(fmt.Sprintf("%s/%s", RBTreeStatsName, name))
	return &rbTreeStats{
		nodeCount: lo.Must[metric.Int64UpDownCounter](meter.Int64UpDownCounter(
			"rbtree.node.count",
			metric.WithDescription("The number of nodes in the red-black tree."),
		)),
		rotationCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbtree.rotation.count",
			metric.WithDescription("The number of rotations performed while rebalancing."),
		)),
		rebalanceCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbtree.rebalance.count",
			metric.WithDescription("The number of fix-up steps performed after insertion or removal."),
		)),
	}
}
