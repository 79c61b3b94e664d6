package gen

import (
	"admissions-backoffice/pkg/config"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

var Module = fx.Module("snowflake", fx.Provide(NewNode))

// NewNode returns the snowflake node used for every entity ID. NODE_ID must
// differ between replicas.
func NewNode(cfg *config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}
