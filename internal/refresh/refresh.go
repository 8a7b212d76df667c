package refresh

import (
    "context"
    "sync"
    "time"
)

// Job asks for one record to be refetched from upstream and recached.
type Job struct {
    RecordID string
}

// Refresher runs stale-while-revalidate refetches in the background. A
// record already in flight is not enqueued twice, and jobs are dropped when
// the queue is saturated: serving slightly stale data beats queueing
// unbounded upstream calls.
type Refresher struct {
    ch    chan Job
    inFly sync.Map // record ID -> struct{}
    Do    func(ctx context.Context, j Job)
}

func New(capacity int, workerCount int, do func(ctx context.Context, j Job)) *Refresher {
    if capacity <= 0 { capacity = 256 }
    if workerCount <= 0 { workerCount = 2 }
    r := &Refresher{ch: make(chan Job, capacity), Do: do}
    for i := 0; i < workerCount; i++ {
        go r.worker()
    }
    return r
}

func (r *Refresher) Enqueue(j Job) {
    if _, exists := r.inFly.LoadOrStore(j.RecordID, struct{}{}); exists {
        return
    }
    select {
    case r.ch <- j:
    default:
        r.inFly.Delete(j.RecordID)
    }
}

func (r *Refresher) worker() {
    for j := range r.ch {
        ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
        func() {
            defer func() {
                r.inFly.Delete(j.RecordID)
                cancel()
            }()
            if r.Do != nil { r.Do(ctx, j) }
        }()
    }
}
