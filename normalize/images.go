package normalize

import "fmt"

// imageSlotOrder fixes the order attachment slots are read in: slot 2 is
// promoted to the front (the second photo is the exterior shot the cards
// lead with), then slot 1, then 3 through 9.
var imageSlotOrder = buildSlotOrder()

func buildSlotOrder() []string {
	order := []string{"画像2", "画像1"}
	for i := 3; i <= 9; i++ {
		order = append(order, fmt.Sprintf("画像%d", i))
	}
	return order
}

// ExtractImages collects attachment URLs from the named image slots in
// slot-priority order, preserving the attachment order inside each slot.
// The result is deterministic for a given record.
func ExtractImages(fields map[string]any) []string {
	var urls []string
	for _, slot := range imageSlotOrder {
		list, ok := fields[slot].([]any)
		if !ok {
			continue
		}
		for _, item := range list {
			att, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if u, ok := att["url"].(string); ok && u != "" {
				urls = append(urls, u)
			}
		}
	}
	return urls
}
