package events

import (
    "context"
    "testing"
)

func TestPublishSubscribe(t *testing.T) {
    pub := NewInMemory(4)
    ctx := context.Background()

    pub.PublishPropertyUpdated(ctx, PropertyUpdated{RecordID: "rec1"})
    pub.PublishPropertyUpdated(ctx, PropertyUpdated{RecordID: "rec2"})

    ch := pub.SubscribePropertyUpdated()
    if evt := <-ch; evt.RecordID != "rec1" {
        t.Fatalf("first event = %+v", evt)
    }
    if evt := <-ch; evt.RecordID != "rec2" {
        t.Fatalf("second event = %+v", evt)
    }
}

func TestPublishDropsWhenFull(t *testing.T) {
    pub := NewInMemory(1)
    ctx := context.Background()

    pub.PublishPropertyUpdated(ctx, PropertyUpdated{RecordID: "kept"})
    // Buffer is full; this publish must drop, not block.
    pub.PublishPropertyUpdated(ctx, PropertyUpdated{RecordID: "dropped"})

    ch := pub.SubscribePropertyUpdated()
    if evt := <-ch; evt.RecordID != "kept" {
        t.Fatalf("event = %+v", evt)
    }
    select {
    case evt := <-ch:
        t.Fatalf("unexpected second event %+v", evt)
    default:
    }
}
