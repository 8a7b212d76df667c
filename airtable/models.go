package airtable

import "time"

// Record is one row of the remote table, exactly as the API returns it.
// Fields is label -> value where value is a string, a number, a list of
// attachment objects, or absent; labels are source-defined and inconsistent,
// so nothing downstream may assume a fixed schema.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime time.Time      `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

type listResponse struct {
	Records []Record `json:"records"`
	// Offset is the opaque continuation token; absent on the last page.
	Offset string `json:"offset"`
}

type apiErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
