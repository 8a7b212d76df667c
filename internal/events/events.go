package events

import (
    "context"
)

// PropertyUpdated fires after a property row is written by the sync job or
// a write-behind from the HTTP layer. Subscribers use it to invalidate
// caches; delivery is best-effort and lossy: a dropped event only delays
// invalidation until the cache TTL expires.
type PropertyUpdated struct {
    RecordID string
}

type Publisher interface {
    PublishPropertyUpdated(ctx context.Context, evt PropertyUpdated)
    SubscribePropertyUpdated() <-chan PropertyUpdated
}

type inMemory struct{ ch chan PropertyUpdated }

func NewInMemory(buffer int) Publisher {
    if buffer <= 0 { buffer = 256 }
    return &inMemory{ch: make(chan PropertyUpdated, buffer)}
}

func (m *inMemory) PublishPropertyUpdated(_ context.Context, evt PropertyUpdated) {
    select { case m.ch <- evt: default: }
}

func (m *inMemory) SubscribePropertyUpdated() <-chan PropertyUpdated { return m.ch }
