package cache

import (
	"time"

	"github.com/bwmarrin/snowflake"
	directorydomain "github.com/househelp/househelp/internal/directory/domain"
)

const defaultWorkerTTL = 15 * time.Second

// WorkerCache stores hot-path worker lookups for profile reads. The
// TTL is short because review submissions move the stored aggregate.
type WorkerCache interface {
	Get(id snowflake.ID) (*directorydomain.Worker, bool)
	Set(id snowflake.ID, worker *directorydomain.Worker)
	Invalidate(id snowflake.ID)
}

type workerCache struct {
	workers Cache[snowflake.ID, *directorydomain.Worker]
	ttl     time.Duration
}

// NewWorkerCache returns an in-memory cache for worker profiles.
func NewWorkerCache() WorkerCache {
	return &workerCache{
		workers: NewTTLCache[snowflake.ID, *directorydomain.Worker](),
		ttl:     defaultWorkerTTL,
	}
}

func (c *workerCache) Get(id snowflake.ID) (*directorydomain.Worker, bool) {
	return c.workers.Get(id)
}

func (c *workerCache) Set(id snowflake.ID, worker *directorydomain.Worker) {
	if worker == nil {
		return
	}
	c.workers.Set(id, worker, c.ttl)
}

func (c *workerCache) Invalidate(id snowflake.ID) {
	c.workers.Delete(id)
}
