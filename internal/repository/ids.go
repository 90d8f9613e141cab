package repository

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// SnowflakeIDs generates time-ordered ids that stay unique within a
// millisecond through the snowflake sequence bits.
type SnowflakeIDs struct {
	node *snowflake.Node
}

// NewSnowflakeIDs creates a generator for the given node (0-1023)
func NewSnowflakeIDs(nodeID int64) (*SnowflakeIDs, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create id node %d: %w", nodeID, err)
	}
	return &SnowflakeIDs{node: node}, nil
}

// NextID returns a new unique id
func (g *SnowflakeIDs) NextID() string {
	return g.node.Generate().String()
}
