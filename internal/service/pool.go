package service

import (
	"sync"
)

// commandPool recycles command objects to reduce GC pressure in the
// hotpath. The response channel is allocated once per command and reused
// across its pooled lifetimes.
//
// Usage:
//
//	c := acquireCommand()
//	c.kind = cmdSubmitLimit
//	// ... send, await response ...
//	releaseCommand(c)
var commandPool = sync.Pool{
	New: func() interface{} {
		return &command{resp: make(chan result, 1)}
	},
}

// acquireCommand gets a command from the pool. The returned command has
// zero values and must be initialized.
func acquireCommand() *command {
	return commandPool.Get().(*command)
}

// releaseCommand returns a command to the pool. All fields except the
// response channel are reset to zero values before pooling.
func releaseCommand(c *command) {
	if c == nil {
		return
	}
	c.kind = 0
	c.seq = 0
	c.side = 0
	c.price = 0
	c.qty = 0
	c.ts = 0
	c.id = 0
	c.cursor = 0

	commandPool.Put(c)
}

// Warmup pre-allocates command objects to reduce GC pressure at startup.
// It acquires and releases a batch of commands.
func Warmup() {
	const batchSize = 1000

	cmds := make([]*command, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		cmds = append(cmds, acquireCommand())
	}
	for _, c := range cmds {
		releaseCommand(c)
	}
}
