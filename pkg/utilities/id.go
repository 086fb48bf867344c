package utilities

import (
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

var (
	nodeOnce sync.Once
	node     *snowflake.Node
)

// NewKSUID generates a new globally unique KSUID string. Record identifiers
// use this form: 27 base62 characters, sortable by creation time.
func NewKSUID() string {
	return ksuid.New().String()
}

// NewRequestID generates a snowflake ID string for request correlation.
// The node ID is taken from SNOWFLAKE_NODE (default 1). If the node cannot
// be initialized it falls back to a KSUID so a unique ID is still returned.
func NewRequestID() string {
	nodeOnce.Do(func() {
		id := int64(1)
		if v := os.Getenv("SNOWFLAKE_NODE"); v != "" {
			if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
				id = parsed
			}
		}
		n, err := snowflake.NewNode(id)
		if err == nil {
			node = n
		}
	})
	if node == nil {
		return NewKSUID()
	}
	return node.Generate().String()
}
